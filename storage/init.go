package storage

func init() {
	RegisterAdapter(isSQLDB, newSQLAdapter)
	RegisterAdapter(isMongoDB, newMongoAdapter)

	// drivers
	RegisterDriver(dialectSQLite, newSQLDriver(dialectSQLite))
	RegisterDriver(dialectPostgres, newSQLDriver(dialectPostgres))
	RegisterDriver(dialectMongo, newMongoDriver)
}
