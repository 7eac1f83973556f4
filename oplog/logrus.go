package oplog

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LogrusSink writes every event as one logrus entry whose fields are the
// event keys.
type LogrusSink struct {
	logger log.FieldLogger
	Level  log.Level
}

func NewLogrusSink(logger log.FieldLogger) *LogrusSink {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogrusSink{logger: logger, Level: log.DebugLevel}
}

func (s *LogrusSink) Log(_ context.Context, e Event) {
	op := e.Operation()
	fields := make(log.Fields, len(e)+1)
	for k, v := range e {
		if k == op {
			continue
		}
		fields[k] = v
	}
	fields["op"] = op
	s.logger.WithFields(fields).Log(s.Level, "mongo "+op)
}
