package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mkadlec/wise-statements/pkg/config"
	"github.com/mkadlec/wise-statements/pkg/prometheus"
	"github.com/mkadlec/wise-statements/pkg/wise"
)

func main() {
	// for development purposes
	// we don't care about errors here
	_ = godotenv.Load(".env")
	conf := config.NewConfig()

	logger := createLogger()
	mon := prometheus.New()

	privateKey, err := os.ReadFile(conf.WisePrivateKeyFile)
	if err != nil {
		logger.Fatalf("Could not read private key file %s: %v", conf.WisePrivateKeyFile, err)
	}

	client, err := wise.NewClient(conf.WiseAPIToken, privateKey, conf.WiseSandbox, logger, mon)
	if err != nil {
		logger.Fatalf("Could not create Wise client: %v", err)
	}

	StartServer(NewRouter(&HandlerRepository{
		wise:    client,
		config:  conf,
		monitor: mon,
		logger:  logger,
	}), conf.Port)
}

func createLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	return logger
}
