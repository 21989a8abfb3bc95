package logger

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestZeroLogger_Info(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Info("info-test", Field{Key: "key", Value: "value"})

	output := buf.String()
	assert.Contains(t, output, "info-test")
	assert.Contains(t, output, `"key":"value"`)
	assert.Contains(t, output, `"level":"info"`)
}

func TestZeroLogger_DebugShownInDev(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Debug("debug-test")

	assert.Contains(t, buf.String(), "debug-test")
}

func TestZeroLogger_DebugHiddenInProduction(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("production", buf)

	log.Debug("debug-hidden")

	assert.Empty(t, buf.String())
}

func TestZeroLogger_Warn(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Warn("warn-test", Field{Key: "warn", Value: "yes"})

	output := buf.String()
	assert.Contains(t, output, `"level":"warn"`)
	assert.Contains(t, output, `"warn":"yes"`)
}

func TestZeroLogger_ErrorFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Error("error-test",
		Err(errors.New("boom")),
		Field{Key: "seq", Value: uint64(7)},
		Field{Key: "elapsed", Value: 1500 * time.Millisecond},
	)

	output := buf.String()
	assert.Contains(t, output, `"level":"error"`)
	assert.Contains(t, output, `"err":"boom"`)
	assert.Contains(t, output, `"seq":7`)
	assert.Contains(t, output, `"elapsed":1500`)
}

func TestZeroLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf).With(Field{Key: "session_id", Value: "s-1"})

	log.Info("scoped")

	assert.Contains(t, buf.String(), `"session_id":"s-1"`)
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...Field) {}
func (discardLogger) Info(string, ...Field)  {}
func (discardLogger) Warn(string, ...Field)  {}
func (discardLogger) Error(string, ...Field) {}

func TestWith(t *testing.T) {
	buf := &bytes.Buffer{}
	scoped := With(NewWithWriter("development", buf), Field{Key: "session_id", Value: "s-2"})
	scoped.Info("scoped")
	assert.Contains(t, buf.String(), `"session_id":"s-2"`)

	plain := discardLogger{}
	assert.Equal(t, Logger(plain), With(plain, Field{Key: "k", Value: "v"}))
}
