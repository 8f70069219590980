package instructor

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/cmdutil"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/apiclient"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Student roster management",
}

var rosterImportCmd = &cobra.Command{
	Use:   "import <csv-file>",
	Short: "Import a student roster from a CSV file",
	Long: `Import a student roster from a CSV file and enroll everyone
as a student. Users that do not exist yet are created; users and
enrollments that already exist are left alone, so re-importing an
updated roster is safe.

The file must have a header row with at least the columns id,
first_name, last_name, and email, in any order.

Example file:
  id,first_name,last_name,email
  jdoe,Jane,Doe,jdoe@example.edu
  asmith,Alex,Smith,asmith@example.edu`,
	Args: cobra.ExactArgs(1),
	RunE: runRosterImport,
}

func init() {
	rosterCmd.AddCommand(rosterImportCmd)
}

func runRosterImport(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open roster file: %w", err)
	}
	defer func() { _ = file.Close() }()

	entries, err := parseRoster(file)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("roster file %s has no entries", args[0])
	}

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}
	courseID, err := cmdutil.ResolveCourse()
	if err != nil {
		return err
	}

	result, err := client.ImportRoster(courseID, entries)
	if err != nil {
		return fmt.Errorf("roster import failed: %w", err)
	}

	fmt.Printf("Imported %d roster entries into %s:\n", len(entries), courseID)
	fmt.Printf("  users created:    %d\n", result.UsersCreated)
	fmt.Printf("  enrolled:         %d\n", result.Enrolled)
	fmt.Printf("  already enrolled: %d\n", result.AlreadyEnrolled)
	return nil
}

// parseRoster reads CSV rows into roster entries, locating columns by
// header name so column order does not matter.
func parseRoster(r io.Reader) ([]apiclient.RosterEntry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("missing header row: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "first_name", "last_name", "email"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var entries []apiclient.RosterEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		entries = append(entries, apiclient.RosterEntry{
			ID:        strings.TrimSpace(record[cols["id"]]),
			FirstName: strings.TrimSpace(record[cols["first_name"]]),
			LastName:  strings.TrimSpace(record[cols["last_name"]]),
			Email:     strings.TrimSpace(record[cols["email"]]),
		})
	}

	return entries, nil
}
