// Package instructor implements course management commands for chisubmit.
package instructor

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for instructor operations.
var Cmd = &cobra.Command{
	Use:   "instructor",
	Short: "Course administration for instructors",
	Long: `Manage a course's roster, assignments, teams, and grading.

Most commands operate on a course, taken from the --course flag or the
stored default (see 'chisubmit set-course').

Examples:
  # Enroll a grader
  chisubmit instructor member add asmith --role grader

  # Import a student roster from CSV
  chisubmit instructor roster import students.csv

  # Create an assignment
  chisubmit instructor assignment create p1 --name "Project 1" --deadline 2026-10-15T23:59:00Z

  # Assign a grader and submit a grade
  chisubmit instructor grading assign <registration-id> asmith
  chisubmit instructor grading grade <registration-id> --component <component-id> --points 42.5`,
}

func init() {
	Cmd.AddCommand(memberCmd)
	Cmd.AddCommand(rosterCmd)
	Cmd.AddCommand(assignmentCmd)
	Cmd.AddCommand(teamCmd)
	Cmd.AddCommand(gradingCmd)
}
