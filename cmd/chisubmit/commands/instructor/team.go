package instructor

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/cmdutil"
	"github.com/uchicago-cs/chisubmit-sub001/internal/cli/output"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/apiclient"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Team management",
}

var teamForce bool

var teamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a course's teams",
	RunE:  runTeamList,
}

var teamShowCmd = &cobra.Command{
	Use:   "show <team-id>",
	Short: "Show a team with its registrations and grades",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeamShow,
}

var teamDeleteCmd = &cobra.Command{
	Use:   "delete <team-id>",
	Short: "Delete a team and its registrations",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeamDelete,
}

var teamAddMemberCmd = &cobra.Command{
	Use:   "add-member <team-id> <user-id>",
	Short: "Add a student to a team",
	Args:  cobra.ExactArgs(2),
	RunE:  runTeamAddMember,
}

var teamRemoveMemberCmd = &cobra.Command{
	Use:   "remove-member <team-id> <user-id>",
	Short: "Remove a student from a team",
	Args:  cobra.ExactArgs(2),
	RunE:  runTeamRemoveMember,
}

func init() {
	teamDeleteCmd.Flags().BoolVarP(&teamForce, "force", "f", false, "Skip confirmation")

	teamCmd.AddCommand(teamListCmd)
	teamCmd.AddCommand(teamShowCmd)
	teamCmd.AddCommand(teamDeleteCmd)
	teamCmd.AddCommand(teamAddMemberCmd)
	teamCmd.AddCommand(teamRemoveMemberCmd)
}

// TeamList is a list of teams for table rendering.
type TeamList []apiclient.Team

// Headers implements TableRenderer.
func (tl TeamList) Headers() []string {
	return []string{"ID", "MEMBERS", "REGISTRATIONS"}
}

// Rows implements TableRenderer.
func (tl TeamList) Rows() [][]string {
	rows := make([][]string, 0, len(tl))
	for _, team := range tl {
		rows = append(rows, []string{
			team.ID,
			cmdutil.EmptyOr(strings.Join(team.Members, ", "), "-"),
			fmt.Sprintf("%d", len(team.Registrations)),
		})
	}
	return rows
}

func runTeamList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	teams, err := client.ListTeams(courseID)
	if err != nil {
		return fmt.Errorf("failed to list teams: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, teams, len(teams) == 0, "No teams found.", TeamList(teams))
}

func runTeamShow(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	team, err := client.GetTeam(courseID, args[0])
	if err != nil {
		return err
	}

	return PrintTeam(team)
}

// PrintTeam renders a team with its registrations in the selected
// output format.
func PrintTeam(team *apiclient.Team) error {
	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return cmdutil.PrintResource(os.Stdout, team, nil)
	}

	if err := output.KeyValueTable(os.Stdout, [][2]string{
		{"ID", team.ID},
		{"Course", team.CourseID},
		{"Members", cmdutil.EmptyOr(strings.Join(team.Members, ", "), "-")},
	}); err != nil {
		return err
	}

	if len(team.Registrations) == 0 {
		fmt.Println("\nNo registrations.")
		return nil
	}

	fmt.Println("\nRegistrations:")
	table := output.NewTableData("ID", "ASSIGNMENT", "GRADER", "GRADES", "TOTAL")
	for _, reg := range team.Registrations {
		grader := "-"
		if reg.GraderID != nil {
			grader = *reg.GraderID
		}
		table.AddRow(reg.ID, reg.AssignmentID, grader,
			fmt.Sprintf("%d", len(reg.Grades)), cmdutil.FormatPoints(reg.TotalPoints))
	}
	return output.PrintTable(os.Stdout, table)
}

func runTeamDelete(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	return cmdutil.RunDeleteWithConfirmation("team", args[0], teamForce, func() error {
		return client.DeleteTeam(courseID, args[0])
	})
}

func runTeamAddMember(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	if _, err := client.AddTeamMember(courseID, args[0], args[1]); err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}

	fmt.Printf("'%s' added to team %s\n", args[1], args[0])
	return nil
}

func runTeamRemoveMember(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	if err := client.RemoveTeamMember(courseID, args[0], args[1]); err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}

	fmt.Printf("'%s' removed from team %s\n", args[1], args[0])
	return nil
}
