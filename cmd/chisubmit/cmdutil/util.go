// Package cmdutil provides shared utilities for chisubmit commands.
package cmdutil

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/uchicago-cs/chisubmit-sub001/internal/cli/credentials"
	"github.com/uchicago-cs/chisubmit-sub001/internal/cli/output"
	"github.com/uchicago-cs/chisubmit-sub001/internal/cli/prompt"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/apiclient"
)

// Flags stores global flag values accessible by subcommands.
var Flags = &GlobalFlags{}

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ServerURL string
	APIKey    string
	Course    string
	Output    string
}

// GetAuthenticatedClient returns an API client configured from stored
// credentials, with --server and --api-key flags taking precedence.
func GetAuthenticatedClient() (*apiclient.Client, error) {
	if Flags.ServerURL != "" && Flags.APIKey != "" {
		return apiclient.New(Flags.ServerURL).WithAPIKey(Flags.APIKey), nil
	}

	store, err := credentials.NewStore()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential store: %w", err)
	}

	creds, err := store.Load()
	if err != nil {
		return nil, err
	}

	url := creds.ServerURL
	if Flags.ServerURL != "" {
		url = Flags.ServerURL
	}
	key := creds.APIKey
	if Flags.APIKey != "" {
		key = Flags.APIKey
	}

	return apiclient.New(url).WithAPIKey(key), nil
}

// ResolveCourse returns the course to operate on: the --course flag if
// given, otherwise the stored default course.
func ResolveCourse() (string, error) {
	if Flags.Course != "" {
		return Flags.Course, nil
	}

	store, err := credentials.NewStore()
	if err != nil {
		return "", err
	}
	creds, err := store.Load()
	if err == nil && creds.DefaultCourse != "" {
		return creds.DefaultCourse, nil
	}

	return "", fmt.Errorf("no course specified: use --course or set a default with 'chisubmit set-course'")
}

// GetOutputFormatParsed returns the parsed output format.
func GetOutputFormatParsed() (output.Format, error) {
	return output.ParseFormat(Flags.Output)
}

// PrintOutput prints data in the selected format. For table format, it
// displays emptyMsg if data is empty, otherwise uses the tableRenderer.
func PrintOutput(w io.Writer, data any, isEmpty bool, emptyMsg string, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		if isEmpty {
			_, _ = fmt.Fprintln(w, emptyMsg)
			return nil
		}
		return output.PrintTable(w, tableRenderer)
	}
}

// PrintResource prints a single resource in the selected format, using
// the tableRenderer for table output.
func PrintResource(w io.Writer, data any, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		return output.PrintTable(w, tableRenderer)
	}
}

// RunDeleteWithConfirmation prompts for confirmation (unless force is
// true) and runs deleteFn.
func RunDeleteWithConfirmation(resourceType, name string, force bool, deleteFn func() error) error {
	confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("Delete %s '%s'?", resourceType, name), force)
	if err != nil {
		if prompt.IsAborted(err) {
			fmt.Println("\nAborted.")
			return nil
		}
		return err
	}
	if !confirmed {
		fmt.Println("Aborted.")
		return nil
	}

	if err := deleteFn(); err != nil {
		return err
	}

	fmt.Printf("%s '%s' deleted\n", resourceType, name)
	return nil
}

// HandleAbort converts a Ctrl+C abort into a clean exit.
// Returns nil for abort, otherwise the original error.
func HandleAbort(err error) error {
	if prompt.IsAborted(err) {
		fmt.Println("\nAborted.")
		return nil
	}
	return err
}

// ParseCommaSeparatedList parses a comma-separated string into a slice
// of trimmed strings.
func ParseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

// BoolToYesNo converts a boolean to "yes" or "no".
func BoolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// EmptyOr returns the value if not empty, otherwise the fallback.
func EmptyOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// FormatPoints renders a point value without trailing zeros.
func FormatPoints(points float64) string {
	return strconv.FormatFloat(points, 'f', -1, 64)
}
