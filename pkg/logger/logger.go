package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init пишет в stderr с настройками logrus по умолчанию.
var Log = logrus.New()

// Init инициализирует глобальный логгер.
// Эта функция должна быть вызвана один раз при старте приложения в main.go.
func Init() {
	Log = logrus.New()

	// 1. Устанавливаем уровень логирования из переменной окружения.
	// По умолчанию - "info". Для отладки можно выставить "debug" или "trace".
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// 2. Устанавливаем форматтер.
	// "json" - для сбора логов.
	// "text" - для удобной разработки.
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	// 3. Устанавливаем, куда писать логи (в стандартный вывод).
	Log.SetOutput(os.Stdout)
}

// InitForTests - тихий логгер для тестов: ошибки видны, остальное нет.
func InitForTests() {
	Log = logrus.New()
	Log.SetOutput(os.Stderr)
	Log.SetLevel(logrus.ErrorLevel)
	if os.Getenv("LOG_LEVEL") != "" {
		Init()
	}
}
