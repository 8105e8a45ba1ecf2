package logger

import (
	"github.com/sirupsen/logrus"
)

// Log — общий логгер приложения. Инициализируется один раз в main.
var Log *logrus.Logger

// Init инициализирует структурированный логгер с JSON форматом.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter переключает логгер на текстовый формат. Используется в development.
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}
