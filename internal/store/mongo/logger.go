package mongo

import "github.com/rs/zerolog"

// logSink adapts the driver's LogSink to zerolog. The driver uses level 1
// for info and 2 for debug messages.
type logSink struct {
	l zerolog.Logger
}

func newLogSink(l zerolog.Logger) *logSink {
	return &logSink{l: l}
}

func (s *logSink) Info(level int, message string, keysAndValues ...interface{}) {
	var event *zerolog.Event
	switch level {
	case 1:
		event = s.l.Info()
	case 2:
		event = s.l.Debug()
	default:
		return
	}
	withFields(event, keysAndValues).Msg(message)
}

func (s *logSink) Error(err error, message string, keysAndValues ...interface{}) {
	withFields(s.l.Error().Err(err), keysAndValues).Msg(message)
}

func withFields(event *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		var value interface{}
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}
		event = event.Interface(key, value)
	}
	return event
}
