package instructor

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/cmdutil"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/apiclient"
)

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Course membership management",
}

var (
	memberRole   string
	memberFilter string
)

var memberAddCmd = &cobra.Command{
	Use:   "add <user-id>",
	Short: "Enroll a user in the course",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemberAdd,
}

var memberListCmd = &cobra.Command{
	Use:   "list",
	Short: "List course members",
	RunE:  runMemberList,
}

var memberDropCmd = &cobra.Command{
	Use:   "drop <user-id>",
	Short: "Mark a student as dropped",
	Long: `Mark a student as dropped. The enrollment record is kept so
past teams and grades remain attributable.`,
	Args: cobra.ExactArgs(1),
	RunE: runMemberDrop,
}

var memberRemoveCmd = &cobra.Command{
	Use:   "remove <user-id>",
	Short: "Remove a user's enrollment entirely",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemberRemove,
}

func init() {
	memberAddCmd.Flags().StringVar(&memberRole, "role", "student", "Role (instructor|grader|student)")
	memberListCmd.Flags().StringVar(&memberFilter, "role", "", "Filter by role (instructor|grader|student)")

	memberCmd.AddCommand(memberAddCmd)
	memberCmd.AddCommand(memberListCmd)
	memberCmd.AddCommand(memberDropCmd)
	memberCmd.AddCommand(memberRemoveCmd)
}

// MemberList is a list of course members for table rendering.
type MemberList []apiclient.CourseMember

// Headers implements TableRenderer.
func (ml MemberList) Headers() []string {
	return []string{"USER", "ROLE", "DROPPED"}
}

// Rows implements TableRenderer.
func (ml MemberList) Rows() [][]string {
	rows := make([][]string, 0, len(ml))
	for _, m := range ml {
		rows = append(rows, []string{m.UserID, m.Role, cmdutil.BoolToYesNo(m.Dropped)})
	}
	return rows
}

func runMemberAdd(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	member, err := client.AddCourseMember(courseID, args[0], memberRole)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	fmt.Printf("'%s' enrolled in %s as %s\n", member.UserID, courseID, member.Role)
	return nil
}

func runMemberList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	members, err := client.ListCourseMembers(courseID, memberFilter)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, members, len(members) == 0, "No members found.", MemberList(members))
}

func runMemberDrop(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	if _, err := client.DropCourseMember(courseID, args[0]); err != nil {
		return fmt.Errorf("failed to drop member: %w", err)
	}

	fmt.Printf("'%s' marked as dropped in %s\n", args[0], courseID)
	return nil
}

func runMemberRemove(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	if err := client.RemoveCourseMember(courseID, args[0]); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	fmt.Printf("'%s' removed from %s\n", args[0], courseID)
	return nil
}
