package utils

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const DEV_ENV_FILENAME = ".env.development"

// InitEnvironmentVariables loads envFile into the process environment. An
// empty envFile loads .env.development when it exists and is otherwise a no-op.
func InitEnvironmentVariables(envFile string) error {
	if os.Getenv("GO_ENV") == "production" {
		log.Info("Running in production environment")
		return nil
	}

	if envFile == "" {
		if _, err := os.Stat(DEV_ENV_FILENAME); err != nil {
			return nil
		}

		envFile = DEV_ENV_FILENAME
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load %s file: %v", envFile, err)
	}

	log.Debugf("loaded environment from %s", envFile)
	return nil
}
