package logger

import (
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger: JSON entries on stdout, mirrored
// to a mode-specific file under logs/. The admin server gets its own
// file; the one-shot modes share logs/reconcile.log.
func NewLogger(mode string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(levelFromEnv())

	if err := os.MkdirAll("logs", 0750); err != nil {
		log.Fatalf("Failed to create logs directory: %v", err)
	}
	sink, err := NewFileSink(logFilePath(mode))
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	logger.AddHook(&fileHook{sink: sink})

	return logger
}

func levelFromEnv() logrus.Level {
	raw := os.Getenv("LOG_LEVEL")
	if raw == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func logFilePath(mode string) string {
	if mode == "server" {
		return "logs/server.log"
	}
	return "logs/reconcile.log"
}

// fileHook mirrors every entry into the async file sink.
type fileHook struct {
	sink *FileSink
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.sink.Write(line)
	return err
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
