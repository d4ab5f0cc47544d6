package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"code.lumenmarkets.io/liquidity/api"
	"code.lumenmarkets.io/liquidity/config"
	"code.lumenmarkets.io/liquidity/logging"
	"code.lumenmarkets.io/liquidity/oracle"
	"code.lumenmarkets.io/liquidity/registry"
	"code.lumenmarkets.io/liquidity/settlement"
	"code.lumenmarkets.io/liquidity/timesvc"
)

var configPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the registry node and serve its API",
	RunE:  runNode,
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the toml configuration file")
}

func runNode(_ *cobra.Command, _ []string) error {
	cfg := config.NewDefaultConfig()
	if len(configPath) > 0 {
		var err error
		if cfg, err = config.Read(configPath); err != nil {
			return err
		}
	}

	log := logging.NewLoggerFromEnv(cfg.Environment)
	defer log.AtExit()

	timeSvc := timesvc.New()
	settle := settlement.New(log)
	prices := oracle.NewService(log)
	engine := registry.New(log, cfg.Registry, timeSvc, settle, prices)
	srv := api.New(log, cfg.API, engine, prices)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown requested", logging.String("signal", sig.String()))
		return srv.Stop()
	case err := <-errCh:
		return err
	}
}
