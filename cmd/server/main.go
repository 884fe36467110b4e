package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kyiku/hackz-valentine-back/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(viper.New())
}

func newRootCmdWith(v *viper.Viper) *cobra.Command {
	config.SetDefaults(v)

	var configPath string

	run := func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(v, configPath)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	}

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Valentine proposal server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the proposal pages and API (default)",
		RunE:  run,
	})

	flags := cmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.String("port", v.GetString("port"), "listen port")
	flags.String("state-backend", v.GetString("state_backend"), "state backend (memory or sqlite)")
	flags.String("sqlite-path", "", "sqlite database file")
	flags.String("catalog-path", "", "copy catalog YAML, reloaded on change")
	flags.String("log-level", v.GetString("log_level"), "log level")
	flags.Bool("log-dev", false, "human readable logs")

	if err := bindFlags(v, flags); err != nil {
		panic(err)
	}

	return cmd
}

// bindFlags maps dashed flag names onto the underscore config keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		key := flagKey(f.Name)
		bindErr = v.BindPFlag(key, f)
	})
	return bindErr
}

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func loadConfig(v *viper.Viper, path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(v, path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
