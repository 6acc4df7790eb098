package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/sim-trading/src/logger"
	"github.com/jiaming2012/sim-trading/src/simulator-api/models"
	"github.com/jiaming2012/sim-trading/src/simulator-api/router"
	"github.com/jiaming2012/sim-trading/src/simulator-api/services"
	"github.com/jiaming2012/sim-trading/src/utils"
)

var rootCmd = &cobra.Command{
	Use:   "simulator",
	Short: "Synthetic market simulation with an autonomous EMA crossover strategy",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, err := cmd.Flags().GetString("env")
		if err != nil {
			return fmt.Errorf("error getting env: %w", err)
		}

		if err := utils.InitEnvironmentVariables(envFile); err != nil {
			return err
		}

		logFile, err := cmd.Flags().GetString("logFile")
		if err != nil {
			return fmt.Errorf("error getting logFile: %w", err)
		}

		logger.Setup(logger.Options{
			Level:      os.Getenv("LOG_LEVEL"),
			File:       logFile,
			MaxBackups: 3,
			MaxAgeDays: 7,
		})

		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run --config simulator.yaml --addr :8080",
	Short: "Run the simulation in real time behind the HTTP and websocket API",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		addr, err := cmd.Flags().GetString("addr")
		if err != nil {
			log.Fatalf("error getting addr: %v", err)
		}

		if err := Run(configPath, addr); err != nil {
			log.Fatalf("Error: %v", err)
		}

		log.Info("Main: gracefully stopped!")
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate --ticks 3600 --out results/performance.csv",
	Short: "Replay a seeded simulation as fast as possible and print a summary",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		ticks, err := cmd.Flags().GetInt("ticks")
		if err != nil {
			log.Fatalf("error getting ticks: %v", err)
		}

		outFile, err := cmd.Flags().GetString("out")
		if err != nil {
			log.Fatalf("error getting out: %v", err)
		}

		var seed *int64
		if cmd.Flags().Changed("seed") {
			s, err := cmd.Flags().GetInt64("seed")
			if err != nil {
				log.Fatalf("error getting seed: %v", err)
			}

			seed = &s
		}

		if err := Simulate(SimulateArgs{
			ConfigPath: configPath,
			Ticks:      ticks,
			Seed:       seed,
			OutFile:    outFile,
		}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func loadConfig(path string, seed *int64) (models.SimulatorConfig, error) {
	cfg, err := services.LoadConfig(path)
	if err != nil {
		return models.SimulatorConfig{}, err
	}

	if seed != nil {
		cfg.Seed = *seed
	}

	return cfg, nil
}

func Run(configPath string, addr string) error {
	cfg, err := loadConfig(configPath, nil)
	if err != nil {
		return err
	}

	engine, err := services.NewEngine(cfg, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := mux.NewRouter()
	hub := router.SetupHandler(r.PathPrefix("/api").Subrouter(), engine)

	srv := &http.Server{
		Handler: r,
		Addr:    addr,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		log.Infof("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := engine.Run(ctx); err != nil {
			log.Errorf("simulation stopped with error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	signal.Notify(stop, syscall.SIGTERM)

	log.Info("Main: init complete")

	<-stop

	engine.Stop()
	wg.Wait()

	hub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	stats := engine.GetStatistics()
	log.Infof("final equity %s after %d trades", utils.FormatMoney(stats.Equity), stats.TotalTrades)

	return nil
}

type SimulateArgs struct {
	ConfigPath string
	Ticks      int
	Seed       *int64
	OutFile    string
}

func Simulate(args SimulateArgs) error {
	if args.Ticks <= 0 {
		return fmt.Errorf("ticks must be greater than 0")
	}

	cfg, err := loadConfig(args.ConfigPath, args.Seed)
	if err != nil {
		return err
	}

	engine, err := services.NewEngine(cfg, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := engine.Simulate(args.Ticks); err != nil {
		return err
	}

	engine.Stop()
	log.Infof("simulated %d ticks in %v", args.Ticks, time.Since(start))

	points := engine.GetPerformance()
	summary, err := services.SummarizePerformance(points, engine.GetStatistics())
	if err != nil {
		return err
	}

	fmt.Print(summary.String())

	if args.OutFile != "" {
		if err := services.ExportPerformanceCSV(args.OutFile, points); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	rootCmd.PersistentFlags().String("env", "", "Optional .env file to load before starting.")
	rootCmd.PersistentFlags().String("logFile", "", "Optional rotating log file, written in addition to stdout.")
	rootCmd.PersistentFlags().String("config", "", "Optional yaml config file. Defaults are used for missing keys.")

	runCmd.Flags().String("addr", ":8080", "The address the HTTP API listens on.")

	simulateCmd.Flags().Int("ticks", 3600, "The number of ticks to simulate.")
	simulateCmd.Flags().Int64("seed", 1, "Overrides the configured seed.")
	simulateCmd.Flags().String("out", "", "Optional csv file for the sealed performance candles.")

	rootCmd.AddCommand(runCmd, simulateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
