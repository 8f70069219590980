// Package admin implements administrative commands for chisubmit.
package admin

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for administrative operations.
var Cmd = &cobra.Command{
	Use:   "admin",
	Short: "Server administration",
	Long: `Manage users and courses on the chisubmit server.

These operations require an admin API key.

Examples:
  # Create a course
  chisubmit admin course create cmsc23300 --name "Networks and Distributed Systems"

  # Create a user
  chisubmit admin user create jdoe --first-name Jane --last-name Doe --email jdoe@example.edu

  # List all users
  chisubmit admin user list`,
}

func init() {
	Cmd.AddCommand(userCmd)
	Cmd.AddCommand(courseCmd)
}
