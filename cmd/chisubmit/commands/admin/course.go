package admin

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/cmdutil"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/apiclient"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Course management",
}

var (
	courseName  string
	courseForce bool
)

var courseCreateCmd = &cobra.Command{
	Use:   "create <course-id>",
	Short: "Create a new course",
	Args:  cobra.ExactArgs(1),
	RunE:  runCourseCreate,
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all courses",
	RunE:  runCourseList,
}

var courseDeleteCmd = &cobra.Command{
	Use:   "delete <course-id>",
	Short: "Delete a course and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE:  runCourseDelete,
}

func init() {
	courseCreateCmd.Flags().StringVar(&courseName, "name", "", "Course name")
	_ = courseCreateCmd.MarkFlagRequired("name")

	courseDeleteCmd.Flags().BoolVarP(&courseForce, "force", "f", false, "Skip confirmation")

	courseCmd.AddCommand(courseCreateCmd)
	courseCmd.AddCommand(courseListCmd)
	courseCmd.AddCommand(courseDeleteCmd)
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

func runCourseCreate(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	course, err := client.CreateCourse(args[0], courseName)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	fmt.Printf("Course '%s' created\n", course.ID)
	return nil
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

func runCourseDelete(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	return cmdutil.RunDeleteWithConfirmation("course", args[0], courseForce, func() error {
		return client.DeleteCourse(args[0])
	})
}
