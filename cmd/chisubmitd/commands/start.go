package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/uchicago-cs/chisubmit-sub001/internal/logger"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/api"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/auth"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/auth/ldap"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/auth/local"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/config"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the chisubmit server",
	Long: `Start the chisubmit server with the specified configuration.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/chisubmit/config.yaml.

Examples:
  # Start with default config
  chisubmitd start

  # Start with custom config file
  chisubmitd start --config /etc/chisubmit/config.yaml

  # Start with environment variable overrides
  CHISUBMIT_LOGGING_LEVEL=DEBUG chisubmitd start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Store close error", "error", err)
		}
	}()
	logger.Info("Store initialized", "type", cfg.Database.Type)

	admin, created, err := st.EnsureAdminUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure admin user: %w", err)
	}
	if created {
		logger.Info("Admin user created", "id", admin.ID)
	}

	bridge, err := newDirectoryBridge(cfg, st)
	if err != nil {
		return err
	}
	logger.Info("Auth backend configured", "backend", cfg.Auth.Backend)

	server := api.NewServer(cfg.API, st, st.DB(), bridge)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		if err := server.Stop(shutdownCtx); err != nil {
			return err
		}
		cancel()
		<-serverDone
		logger.Info("Server stopped gracefully")
		return nil

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			return err
		}
		logger.Info("Server stopped")
		return nil
	}
}

// newDirectoryBridge builds the Basic auth verifier selected by the
// configuration. The "none" backend disables Basic auth entirely,
// leaving API keys as the only way in.
func newDirectoryBridge(cfg *config.Config, st store.Store) (auth.DirectoryBridge, error) {
	switch cfg.Auth.Backend {
	case "local":
		return local.New(st), nil
	case "ldap":
		bridge, err := ldap.New(cfg.Auth.LDAP)
		if err != nil {
			return nil, fmt.Errorf("failed to configure LDAP bridge: %w", err)
		}
		return bridge, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown auth backend: %q", cfg.Auth.Backend)
	}
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
