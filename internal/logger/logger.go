package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// InitializeAndConfigure sets up the logger for a command line run: text output on stderr at the
// given level. An empty level reads LOG_LEVEL.
func InitializeAndConfigure(level string) {
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	log.SetOutput(os.Stderr)

	configureLogLevel(level)
}

// SetOutput redirects log output
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func configureLogLevel(levelStr string) {
	log.SetLevel(logrus.InfoLevel)

	if levelStr == "" {
		levelStr = os.Getenv("LOG_LEVEL")
	}
	if levelStr == "" {
		// Defaults to InfoLevel set above
		return
	}

	// Parse the log level string
	level, err := logrus.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		// If parsing fails, log a warning and keep the default
		log.Warnf("Invalid log level '%s', defaulting to 'info'", levelStr)
		return
	}

	log.SetLevel(level)
	log.Debugf("Log level set to '%s'", level)
}

// Level returns the current log level
func Level() logrus.Level {
	return log.GetLevel()
}

// Debugf logs a diagnostic only shown with --debug
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs progress the operator should see
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs a problem the command works around
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs a failure of the current operation
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// DebugWithFields logs msg at debug level with structured fields.
// Callers pass job fields through types.Job.LogFields so tokens never reach the log.
func DebugWithFields(msg string, fields map[string]interface{}) {
	log.WithFields(fields).Debug(msg)
}

// InfoWithFields logs msg at info level with structured fields
func InfoWithFields(msg string, fields map[string]interface{}) {
	log.WithFields(fields).Info(msg)
}

// WarnWithFields logs msg at warn level with structured fields
func WarnWithFields(msg string, fields map[string]interface{}) {
	log.WithFields(fields).Warn(msg)
}

// ErrorWithFields logs msg at error level with structured fields
func ErrorWithFields(msg string, fields map[string]interface{}) {
	log.WithFields(fields).Error(msg)
}
