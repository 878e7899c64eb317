package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInitializeAndConfigure(t *testing.T) {
	tests := []struct {
		name  string
		level string
		env   string
		want  logrus.Level
	}{
		{name: "explicit level", level: "debug", want: logrus.DebugLevel},
		{name: "level from environment", env: "warn", want: logrus.WarnLevel},
		{name: "explicit level wins", level: "error", env: "debug", want: logrus.ErrorLevel},
		{name: "invalid level", level: "chatty", want: logrus.InfoLevel},
		{name: "default", want: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.env)
			InitializeAndConfigure(tt.level)
			assert.Equal(t, tt.want, Level())
		})
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	InitializeAndConfigure("info")
	SetOutput(&buf)

	InfoWithFields("discovery job queued", map[string]interface{}{"job_id": "DIS1"})
	DebugWithFields("hidden", map[string]interface{}{"job_id": "DIS2"})

	assert.Contains(t, buf.String(), "discovery job queued")
	assert.Contains(t, buf.String(), "job_id=DIS1")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitializeAndConfigure("warn")
	SetOutput(&buf)

	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warnf("warn %d", 3)
	Errorf("error %d", 4)
	ErrorWithFields("failed", map[string]interface{}{"job_id": "DIS3"})

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "warn 3")
	assert.Contains(t, out, "error 4")
	assert.Contains(t, out, "job_id=DIS3")
}
