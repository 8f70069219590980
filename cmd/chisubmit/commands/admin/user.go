package admin

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmit/cmdutil"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/apiclient"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management",
}

var (
	userFirstName string
	userLastName  string
	userEmail     string
	userPassword  string
	userForce     bool
)

var userCreateCmd = &cobra.Command{
	Use:   "create <user-id>",
	Short: "Create a new user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserCreate,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE:  runUserList,
}

var userShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserShow,
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserDelete,
}

var userRotateKeyCmd = &cobra.Command{
	Use:   "rotate-key <user-id>",
	Short: "Generate a new API key for a user",
	Long: `Generate a new API key for a user. The previous key stops
working immediately. The new key is printed once and not stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runUserRotateKey,
}

func init() {
	userCreateCmd.Flags().StringVar(&userFirstName, "first-name", "", "First name")
	userCreateCmd.Flags().StringVar(&userLastName, "last-name", "", "Last name")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password for the local directory backend (optional)")
	_ = userCreateCmd.MarkFlagRequired("email")

	userDeleteCmd.Flags().BoolVarP(&userForce, "force", "f", false, "Skip confirmation")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userDeleteCmd)
	userCmd.AddCommand(userRotateKeyCmd)
}

// UserList is a list of users for table rendering.
type UserList []apiclient.User

// Headers implements TableRenderer.
func (ul UserList) Headers() []string {
	return []string{"ID", "NAME", "EMAIL", "ADMIN"}
}

// Rows implements TableRenderer.
func (ul UserList) Rows() [][]string {
	rows := make([][]string, 0, len(ul))
	for _, u := range ul {
		name := cmdutil.EmptyOr(fmt.Sprintf("%s %s", u.FirstName, u.LastName), "-")
		rows = append(rows, []string{u.ID, name, cmdutil.EmptyOr(u.Email, "-"), cmdutil.BoolToYesNo(u.Admin)})
	}
	return rows
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	user, err := client.CreateUser(apiclient.CreateUserRequest{
		ID:        args[0],
		FirstName: userFirstName,
		LastName:  userLastName,
		Email:     userEmail,
		Password:  userPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("User '%s' created\n", user.ID)
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	users, err := client.ListUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, users, len(users) == 0, "No users found.", UserList(users))
}

func runUserShow(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	user, err := client.GetUser(args[0])
	if err != nil {
		return err
	}

	return cmdutil.PrintOutput(os.Stdout, user, false, "", UserList{*user})
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	return cmdutil.RunDeleteWithConfirmation("user", args[0], userForce, func() error {
		return client.DeleteUser(args[0])
	})
}

func runUserRotateKey(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	key, err := client.RegenerateAPIKey(args[0])
	if err != nil {
		return fmt.Errorf("failed to rotate API key: %w", err)
	}

	fmt.Printf("New API key for %s: %s\n", key.ID, key.APIKey)
	fmt.Println("Save it now: it will not be shown again.")
	return nil
}
