package logger

// Field is a single structured key/value attached to a log line.
type Field struct {
	Key   string
	Value any
}

// Logger is the logging contract shared by every package in flightdesk.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Err is shorthand for the conventional "err" field.
func Err(err error) Field {
	return Field{Key: "err", Value: err}
}

// With returns l carrying fields on every line when l supports child
// loggers, and l unchanged otherwise.
func With(l Logger, fields ...Field) Logger {
	if zl, ok := l.(*ZeroLogger); ok {
		return zl.With(fields...)
	}
	return l
}
