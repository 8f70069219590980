package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/cmdutil"
	"github.com/uchicago-cs/chisubmit-sub001/internal/cli/credentials"
	"github.com/uchicago-cs/chisubmit-sub001/internal/cli/output"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	RunE:  runWhoami,
}

var setCourseCmd = &cobra.Command{
	Use:   "set-course <course-id>",
	Short: "Set the default course for subsequent commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := credentials.NewStore()
		if err != nil {
			return err
		}
		if err := store.SetDefaultCourse(args[0]); err != nil {
			return err
		}
		fmt.Printf("Default course set to %s\n", args[0])
		return nil
	},
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	user, err := client.Me()
	if err != nil {
		return err
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, user)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, user)
	default:
		return output.KeyValueTable(os.Stdout, [][2]string{
			{"ID", user.ID},
			{"Name", fmt.Sprintf("%s %s", user.FirstName, user.LastName)},
			{"Email", user.Email},
			{"Admin", cmdutil.BoolToYesNo(user.Admin)},
		})
	}
}
