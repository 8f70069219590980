package student

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/cmdutil"
	instructorcmd "github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/commands/instructor"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/apiclient"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Course information",
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your courses",
	RunE:  runCourseList,
}

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Team formation",
}

var teamMembers string

var teamCreateCmd = &cobra.Command{
	Use:   "create <team-id>",
	Short: "Create a team",
	Long: `Create a team with the given members. You must be one of the
members, and every member must be an active student of the course.`,
	Args: cobra.ExactArgs(1),
	RunE: runTeamCreate,
}

var teamShowCmd = &cobra.Command{
	Use:   "show <team-id>",
	Short: "Show your team with its registrations and grades",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeamShow,
}

var registerCmd = &cobra.Command{
	Use:   "register <team-id> <assignment-id>",
	Short: "Register a team for an assignment",
	Long: `Register a team for an assignment. Registering a team that is
already registered is harmless: each team member can run this command
and they all land on the same registration.`,
	Args: cobra.ExactArgs(2),
	RunE: runRegister,
}

func init() {
	teamCreateCmd.Flags().StringVar(&teamMembers, "members", "", "Comma-separated member user ids (including yourself)")
	_ = teamCreateCmd.MarkFlagRequired("members")

	courseCmd.AddCommand(courseListCmd)

	teamCmd.AddCommand(teamCreateCmd)
	teamCmd.AddCommand(teamShowCmd)
}

// CourseList is a list of courses for table rendering.
type CourseList []apiclient.Course

// Headers implements TableRenderer.
func (cl CourseList) Headers() []string {
	return []string{"ID", "NAME"}
}

// Rows implements TableRenderer.
func (cl CourseList) Rows() [][]string {
	rows := make([][]string, 0, len(cl))
	for _, c := range cl {
		rows = append(rows, []string{c.ID, c.Name})
	}
	return rows
}

func runCourseList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	courses, err := client.ListCourses()
	if err != nil {
		return fmt.Errorf("failed to list courses: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, courses, len(courses) == 0, "No courses found.", CourseList(courses))
}

func runTeamCreate(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	members := cmdutil.ParseCommaSeparatedList(teamMembers)
	if len(members) == 0 {
		return fmt.Errorf("no members given")
	}

	team, err := client.CreateTeam(courseID, args[0], members)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	fmt.Printf("Team '%s' created in %s\n", team.ID, courseID)
	return nil
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

	return instructorcmd.PrintTeam(team)
}

func runRegister(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	registration, err := client.Register(courseID, args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}

	fmt.Printf("Team '%s' registered for %s (registration %s)\n", args[0], args[1], registration.ID)
	return nil
}
