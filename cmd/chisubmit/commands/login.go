package commands

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/cmdutil"
	"github.com/uchicago-cs/chisubmit-sub001/internal/cli/credentials"
	"github.com/uchicago-cs/chisubmit-sub001/internal/cli/prompt"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/apiclient"
)

var (
	loginServer   string
	loginUsername string
	loginKey      string
	loginCourse   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Obtain and store server credentials",
	Long: `Log in to a chisubmit server and store an API key locally.

With --api-key, the given key is verified against the server and saved.
Otherwise you are prompted for your username and password; the server
issues a fresh API key, which invalidates any previously issued key for
your account.

On first login, you must specify the server URL. Subsequent logins
reuse the stored server URL unless overridden.

Examples:
  # First login, password flow
  chisubmit login --server http://submit.example.edu:8080

  # Login with an existing API key and set a default course
  chisubmit login --api-key a1b2c3... --course cmsc23300

  # Re-login to the stored server
  chisubmit login`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginServer, "server", "", "Server URL (required on first login)")
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Username for the password flow (prompted if not given)")
	loginCmd.Flags().StringVar(&loginKey, "api-key", "", "Existing API key to verify and store")
	loginCmd.Flags().StringVar(&loginCourse, "course", "", "Default course for subsequent commands")
}

func runLogin(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize credential store: %w", err)
	}

	serverURL := loginServer
	if serverURL == "" {
		if creds, err := store.Load(); err == nil {
			serverURL = creds.ServerURL
		}
	}
	if serverURL == "" {
		return fmt.Errorf("no server URL specified and no saved credentials found\n\n" +
			"Specify the server URL:\n" +
			"  chisubmit login --server http://submit.example.edu:8080")
	}

	parsed, err := url.Parse(serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "http"
		serverURL = parsed.String()
	}

	client := apiclient.New(serverURL)

	apiKey := loginKey
	username := ""
	if apiKey == "" {
		apiKey, username, err = passwordLogin(client)
		if err != nil {
			return err
		}
	}

	user, err := client.WithAPIKey(apiKey).Me()
	if err != nil {
		if apiclient.IsAuthError(err) {
			return fmt.Errorf("the server rejected the API key")
		}
		return fmt.Errorf("login failed: %w", err)
	}
	if username == "" {
		username = user.ID
	}

	creds := &credentials.Credentials{
		ServerURL:     serverURL,
		Username:      username,
		APIKey:        apiKey,
		DefaultCourse: loginCourse,
	}
	if err := store.Save(creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	fmt.Printf("Logged in to %s as %s\n", serverURL, user.ID)
	fmt.Printf("Credentials saved to: %s\n", store.Path())
	if loginCourse != "" {
		fmt.Printf("Default course: %s\n", loginCourse)
	}

	return nil
}

// passwordLogin asks for a username and password and exchanges them for
// a fresh API key.
func passwordLogin(client *apiclient.Client) (apiKey, username string, err error) {
	username = loginUsername
	if username == "" {
		username, err = prompt.Input("Username", "")
		if err != nil {
			return "", "", cmdutil.HandleAbort(err)
		}
	}
	if username == "" {
		return "", "", fmt.Errorf("no username given")
	}

	password, err := prompt.Password("Password")
	if err != nil {
		return "", "", cmdutil.HandleAbort(err)
	}

	key, err := client.WithBasicAuth(username, password).RegenerateAPIKey(username)
	if err != nil {
		if apiclient.IsAuthError(err) {
			return "", "", fmt.Errorf("the server rejected the username or password")
		}
		return "", "", fmt.Errorf("login failed: %w", err)
	}
	return key.APIKey, username, nil
}
