package logger

import (
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newWithWriter(w io.Writer, level string) Logger {
	l := &DefaultLogger{
		writers: []io.Writer{w},
		log:     zerolog.New(w),
	}
	l.SetLogLevel(level)

	return l
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"TRACE", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"Info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "WARN")

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	log.SetLogLevel("DEBUG")
	log.Debug().Msg("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestErr(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "INFO")

	log.Err(errors.New("boom")).Msg("failed")
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	log.Err(nil).Msg("fine")
	assert.Contains(t, buf.String(), `"level":"info"`)
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Error().Msg("discarded")
	log.SetLogLevel("DEBUG")
	log.Debug().Msg("still discarded")
}
