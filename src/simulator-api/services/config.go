package services

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
)

// LoadConfig starts from the defaults, applies the yaml file at path when
// path is not empty, then the SIM_* environment overrides, and validates
// the result.
func LoadConfig(path string) (models.SimulatorConfig, error) {
	cfg := models.DefaultSimulatorConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return models.SimulatorConfig{}, fmt.Errorf("LoadConfig: read config file error: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return models.SimulatorConfig{}, fmt.Errorf("LoadConfig: unmarshal config yaml error: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return models.SimulatorConfig{}, fmt.Errorf("LoadConfig: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return models.SimulatorConfig{}, fmt.Errorf("LoadConfig: invalid config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *models.SimulatorConfig) error {
	if v, found := os.LookupEnv("SIM_SEED"); found {
		seed, err := cast.ToInt64E(v)
		if err != nil {
			return fmt.Errorf("SIM_SEED: %w", err)
		}

		cfg.Seed = seed
	}

	if v, found := os.LookupEnv("SIM_STARTING_EQUITY"); found {
		equity, err := cast.ToFloat64E(v)
		if err != nil {
			return fmt.Errorf("SIM_STARTING_EQUITY: %w", err)
		}

		cfg.StartingEquity = equity
	}

	if v, found := os.LookupEnv("SIM_TICK_INTERVAL"); found {
		interval, err := cast.ToDurationE(v)
		if err != nil {
			return fmt.Errorf("SIM_TICK_INTERVAL: %w", err)
		}

		cfg.TickInterval = interval
	}

	if v, found := os.LookupEnv("SIM_MAX_OPEN_POSITIONS"); found {
		maxOpen, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("SIM_MAX_OPEN_POSITIONS: %w", err)
		}

		cfg.Strategy.MaxOpenPositions = maxOpen
	}

	if v, found := os.LookupEnv("SIM_FILL_DELAY_TICKS"); found {
		delay, err := cast.ToUint64E(v)
		if err != nil {
			return fmt.Errorf("SIM_FILL_DELAY_TICKS: %w", err)
		}

		cfg.FillDelayTicks = delay
	}

	log.Debugf("config: seed %d, equity %.2f, tick %v", cfg.Seed, cfg.StartingEquity, cfg.TickInterval)

	return nil
}
