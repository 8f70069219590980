package instructor

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/cmdutil"
	"github.com/uchicago-cs/chisubmit-sub001/internal/cli/output"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/apiclient"
)

var assignmentCmd = &cobra.Command{
	Use:   "assignment",
	Short: "Assignment management",
}

var (
	assignmentName     string
	assignmentDeadline string
	assignmentForce    bool

	rubricPoints   float64
	rubricPosition int
)

var assignmentCreateCmd = &cobra.Command{
	Use:   "create <assignment-id>",
	Short: "Create a new assignment",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssignmentCreate,
}

var assignmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a course's assignments",
	RunE:  runAssignmentList,
}

var assignmentShowCmd = &cobra.Command{
	Use:   "show <assignment-id>",
	Short: "Show an assignment and its rubric",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssignmentShow,
}

var assignmentDeleteCmd = &cobra.Command{
	Use:   "delete <assignment-id>",
	Short: "Delete an assignment and its rubric",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssignmentDelete,
}

var assignmentAddRubricCmd = &cobra.Command{
	Use:   "add-rubric <assignment-id> <description>",
	Short: "Add a rubric component to an assignment",
	Args:  cobra.ExactArgs(2),
	RunE:  runAssignmentAddRubric,
}

func init() {
	assignmentCreateCmd.Flags().StringVar(&assignmentName, "name", "", "Assignment name")
	assignmentCreateCmd.Flags().StringVar(&assignmentDeadline, "deadline", "", "Deadline (RFC 3339, e.g. 2026-10-15T23:59:00Z)")
	_ = assignmentCreateCmd.MarkFlagRequired("name")
	_ = assignmentCreateCmd.MarkFlagRequired("deadline")

	assignmentDeleteCmd.Flags().BoolVarP(&assignmentForce, "force", "f", false, "Skip confirmation")

	assignmentAddRubricCmd.Flags().Float64Var(&rubricPoints, "points", 0, "Maximum points for this component")
	assignmentAddRubricCmd.Flags().IntVar(&rubricPosition, "position", 0, "Position in the rubric (lower sorts first)")
	_ = assignmentAddRubricCmd.MarkFlagRequired("points")

	assignmentCmd.AddCommand(assignmentCreateCmd)
	assignmentCmd.AddCommand(assignmentListCmd)
	assignmentCmd.AddCommand(assignmentShowCmd)
	assignmentCmd.AddCommand(assignmentDeleteCmd)
	assignmentCmd.AddCommand(assignmentAddRubricCmd)
}

// AssignmentList is a list of assignments for table rendering.
type AssignmentList []apiclient.Assignment

// Headers implements TableRenderer.
func (al AssignmentList) Headers() []string {
	return []string{"ID", "NAME", "DEADLINE", "MAX POINTS"}
}

// Rows implements TableRenderer.
func (al AssignmentList) Rows() [][]string {
	rows := make([][]string, 0, len(al))
	for _, a := range al {
		rows = append(rows, []string{
			a.ID,
			a.Name,
			a.Deadline.Local().Format("2006-01-02 15:04"),
			cmdutil.FormatPoints(a.MaxPoints),
		})
	}
	return rows
}

func runAssignmentCreate(cmd *cobra.Command, args []string) error {
	deadline, err := time.Parse(time.RFC3339, assignmentDeadline)
	if err != nil {
		return fmt.Errorf("invalid deadline (want RFC 3339, e.g. 2026-10-15T23:59:00Z): %w", err)
	}

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	assignment, err := client.CreateAssignment(courseID, args[0], assignmentName, deadline)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	fmt.Printf("Assignment '%s' created in %s\n", assignment.ID, courseID)
	return nil
}

func runAssignmentList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	assignments, err := client.ListAssignments(courseID)
	if err != nil {
		return fmt.Errorf("failed to list assignments: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, assignments, len(assignments) == 0, "No assignments found.", AssignmentList(assignments))
}

func runAssignmentShow(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	assignment, err := client.GetAssignment(courseID, args[0])
	if err != nil {
		return err
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return cmdutil.PrintResource(os.Stdout, assignment, nil)
	}

	if err := output.KeyValueTable(os.Stdout, [][2]string{
		{"ID", assignment.ID},
		{"Name", assignment.Name},
		{"Deadline", assignment.Deadline.Local().Format("2006-01-02 15:04")},
		{"Max points", cmdutil.FormatPoints(assignment.MaxPoints)},
	}); err != nil {
		return err
	}

	if len(assignment.Components) == 0 {
		fmt.Println("\nNo rubric components.")
		return nil
	}

	fmt.Println("\nRubric:")
	rubric := output.NewTableData("ID", "DESCRIPTION", "POINTS")
	for _, component := range assignment.Components {
		rubric.AddRow(component.ID, component.Description, cmdutil.FormatPoints(component.Points))
	}
	return output.PrintTable(os.Stdout, rubric)
}

func runAssignmentDelete(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	return cmdutil.RunDeleteWithConfirmation("assignment", args[0], assignmentForce, func() error {
		return client.DeleteAssignment(courseID, args[0])
	})
}

func runAssignmentAddRubric(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	component, err := client.AddRubricComponent(courseID, args[0], args[1], rubricPoints, rubricPosition)
	if err != nil {
		return fmt.Errorf("failed to add rubric component: %w", err)
	}

	fmt.Printf("Rubric component '%s' (%s points) added to %s\n",
		component.Description, cmdutil.FormatPoints(component.Points), args[0])
	return nil
}
