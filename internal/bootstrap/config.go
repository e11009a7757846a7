package bootstrap

import (
	"log"

	"github.com/go-taskgate/taskgate/internal/config"
)

// validateAllConfiguration checks the configuration and exits on fatal errors
func validateAllConfiguration(cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
}
