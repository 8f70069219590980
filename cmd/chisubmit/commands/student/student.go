// Package student implements student-facing commands for chisubmit.
package student

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for student operations.
var Cmd = &cobra.Command{
	Use:   "student",
	Short: "Team formation and assignment registration",
	Long: `Form teams and register them for assignments.

Commands operate on a course, taken from the --course flag or the
stored default (see 'chisubmit set-course').

Examples:
  # List your courses
  chisubmit student course list

  # Create a team with a classmate
  chisubmit student team create jdoe-asmith --members jdoe,asmith

  # Register the team for an assignment
  chisubmit student register jdoe-asmith p1

  # Check grades
  chisubmit student team show jdoe-asmith`,
}

func init() {
	Cmd.AddCommand(courseCmd)
	Cmd.AddCommand(teamCmd)
	Cmd.AddCommand(registerCmd)
}
