package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample chisubmit server configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/chisubmit/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  chisubmitd init

  # Initialize with custom path
  chisubmitd init --config /etc/chisubmit/config.yaml

  # Force overwrite existing config
  chisubmitd init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := GetConfigFile()
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", configPath)
	}

	if err := config.SaveConfig(config.GetDefaultConfig(), configPath); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Start the server with: chisubmitd start")
	fmt.Printf("  3. Or specify custom config: chisubmitd start --config %s\n", configPath)
	fmt.Println("\nSecurity note:")
	fmt.Println("  On first start, an admin user is created with a random API key printed")
	fmt.Println("  to the log. To choose the key yourself, set an environment variable:")
	fmt.Println("    export CHISUBMIT_ADMIN_API_KEY=$(openssl rand -hex 32)")

	return nil
}
