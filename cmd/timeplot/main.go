// Command timeplot renders YAML chart descriptions to PNG.
//
// Usage:
//
//	timeplot render -f chart.yaml -o chart.png [--width 800] [--height 300] [--watch]
//	timeplot version
//
// Flags may also be set in a config file (--config, default
// $HOME/.timeplot.yaml) or through TIMEPLOT_ environment variables, for
// example TIMEPLOT_LOG_LEVEL=debug.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gogpu/timeplot"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:          "timeplot",
		Short:        "Render time series charts",
		Long:         `Render time series charts described in YAML to PNG images.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, v)
		},
	}

	cmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.timeplot.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")

	cmd.AddCommand(newRenderCmd(v))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// initConfig layers flags over environment variables over the config
// file, then installs the logger.
func initConfig(cmd *cobra.Command, v *viper.Viper) error {
	v.SetEnvPrefix("TIMEPLOT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".timeplot")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("read config %s: %w", filepath.Join(home, ".timeplot.yaml"), err)
			}
		}
	}

	level, err := log.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return err
	}
	handler := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	timeplot.SetLogger(slog.New(handler))
	return nil
}
