package instructor

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/cmdutil"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/apiclient"
)

var gradingCmd = &cobra.Command{
	Use:   "grading",
	Short: "Grader assignment and grading",
	Long: `Assign graders to registrations and submit grades.

The grade and penalty commands operate on registration ids, which
'grading registrations' and 'team show' display.`,
}

var (
	gradeComponent     string
	gradePoints        float64
	penaltyDescription string
	penaltyPoints      float64
)

var gradingRegistrationsCmd = &cobra.Command{
	Use:   "registrations <assignment-id>",
	Short: "List an assignment's registrations",
	Args:  cobra.ExactArgs(1),
	RunE:  runGradingRegistrations,
}

var gradingAssignCmd = &cobra.Command{
	Use:   "assign <registration-id> <grader-id>",
	Short: "Assign a grader to a registration",
	Args:  cobra.ExactArgs(2),
	RunE:  runGradingAssign,
}

var gradingGradeCmd = &cobra.Command{
	Use:   "grade <registration-id>",
	Short: "Submit the grade for one rubric component",
	Long: `Submit the grade for one rubric component of a registration.
Grading an already-graded component replaces the previous score.

Instructors can grade any registration; graders only the ones
assigned to them.`,
	Args: cobra.ExactArgs(1),
	RunE: runGradingGrade,
}

var gradingPenaltyCmd = &cobra.Command{
	Use:   "penalty <registration-id>",
	Short: "Apply a penalty to a registration",
	Long: `Apply a penalty to a registration. Points must be zero or
negative; the amount is added to the registration's total.`,
	Args: cobra.ExactArgs(1),
	RunE: runGradingPenalty,
}

func init() {
	gradingGradeCmd.Flags().StringVar(&gradeComponent, "component", "", "Rubric component id")
	gradingGradeCmd.Flags().Float64Var(&gradePoints, "points", 0, "Points awarded")
	_ = gradingGradeCmd.MarkFlagRequired("component")
	_ = gradingGradeCmd.MarkFlagRequired("points")

	gradingPenaltyCmd.Flags().StringVar(&penaltyDescription, "description", "", "Reason for the penalty")
	gradingPenaltyCmd.Flags().Float64Var(&penaltyPoints, "points", 0, "Points to deduct (zero or negative)")
	_ = gradingPenaltyCmd.MarkFlagRequired("description")
	_ = gradingPenaltyCmd.MarkFlagRequired("points")

	gradingCmd.AddCommand(gradingRegistrationsCmd)
	gradingCmd.AddCommand(gradingAssignCmd)
	gradingCmd.AddCommand(gradingGradeCmd)
	gradingCmd.AddCommand(gradingPenaltyCmd)
}

// RegistrationList is a list of registrations for table rendering.
type RegistrationList []apiclient.Registration

// Headers implements TableRenderer.
func (rl RegistrationList) Headers() []string {
	return []string{"ID", "TEAM", "GRADER", "GRADES", "TOTAL"}
}

// Rows implements TableRenderer.
func (rl RegistrationList) Rows() [][]string {
	rows := make([][]string, 0, len(rl))
	for _, reg := range rl {
		grader := "-"
		if reg.GraderID != nil {
			grader = *reg.GraderID
		}
		rows = append(rows, []string{
			reg.ID, reg.TeamID, grader,
			fmt.Sprintf("%d", len(reg.Grades)),
			cmdutil.FormatPoints(reg.TotalPoints),
		})
	}
	return rows
}

func runGradingRegistrations(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	registrations, err := client.ListAssignmentRegistrations(courseID, args[0])
	if err != nil {
		return fmt.Errorf("failed to list registrations: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, registrations, len(registrations) == 0,
		"No registrations found.", RegistrationList(registrations))
}

func runGradingAssign(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	registration, err := client.AssignGrader(courseID, args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to assign grader: %w", err)
	}

	fmt.Printf("'%s' assigned as grader for registration %s\n", args[1], registration.ID)
	return nil
}

func runGradingGrade(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	grade, err := client.SubmitGrade(courseID, args[0], gradeComponent, gradePoints)
	if err != nil {
		return fmt.Errorf("failed to submit grade: %w", err)
	}

	fmt.Printf("Grade recorded: %s points for component %s\n",
		cmdutil.FormatPoints(grade.Points), grade.RubricComponentID)
	return nil
}

func runGradingPenalty(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	penalty, err := client.AddPenalty(courseID, args[0], penaltyDescription, penaltyPoints)
	if err != nil {
		return fmt.Errorf("failed to apply penalty: %w", err)
	}

	fmt.Printf("Penalty %s recorded: %s (%s points)\n",
		penalty.ID, penalty.Description, cmdutil.FormatPoints(penalty.Points))
	return nil
}
