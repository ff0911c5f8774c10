package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger. An unknown level falls back to
// info.
func Init(level string) {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	if err != nil && level != "" {
		logrus.WithField("level", level).Warn("unknown log level, using info")
	}
}

// For returns an entry tagged with the component name.
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
