package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

// 全局日志
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// 测试入口不经过 main，这里先给一个默认实例
func init() {
	InitLogger("development", "info")
}

// InitLogger 初始化日志，生产环境输出 JSON
func InitLogger(env, level string) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	if env == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	Log = logger.WithFields(logrus.Fields{
		"service":        "couplewatch",
		"is_development": env != "production",
	})
}
