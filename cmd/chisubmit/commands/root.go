// Package commands implements the CLI commands for the chisubmit client.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/cmdutil"
	admincmd "github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/commands/admin"
	instructorcmd "github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/commands/instructor"
	studentcmd "github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/commands/student"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "chisubmit",
	Short: "chisubmit - assignment submission and grading management client",
	Long: `chisubmit is the command-line client for a chisubmit server.

Commands are grouped by role: admin commands manage users and courses,
instructor commands manage a course's roster, assignments, teams, and
grading, and student commands cover team formation and assignment
registration.

Use "chisubmit [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmdutil.Flags.ServerURL, _ = cmd.Flags().GetString("server")
		cmdutil.Flags.APIKey, _ = cmd.Flags().GetString("api-key")
		cmdutil.Flags.Course, _ = cmd.Flags().GetString("course")
		cmdutil.Flags.Output, _ = cmd.Flags().GetString("output")
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "Server URL (overrides stored credential)")
	rootCmd.PersistentFlags().String("api-key", "", "API key (overrides stored credential)")
	rootCmd.PersistentFlags().StringP("course", "c", "", "Course to operate on (overrides stored default)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(setCourseCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(admincmd.Cmd)
	rootCmd.AddCommand(instructorcmd.Cmd)
	rootCmd.AddCommand(studentcmd.Cmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
