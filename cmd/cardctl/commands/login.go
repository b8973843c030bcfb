package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the admin login command.
func NewLoginCommand() *cobra.Command {
	var (
		username    string
		password    string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an administrator",
		Long:  "Authenticate against the card API's admin surface and store the session token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().Title("Username").Value(&username).Validate(required("username")),
						huh.NewInput().Title("Password").Value(&password).EchoMode(huh.EchoModePassword).Validate(required("password")),
					),
				).WithTheme(formTheme())

				if err := form.Run(); err != nil {
					return fmt.Errorf("login form: %w", err)
				}
			}

			if username == "" {
				fmt.Print("Username: ")

				if _, err := fmt.Scanln(&username); err != nil {
					return fmt.Errorf("failed to read username: %w", err)
				}
			}

			if password == "" {
				fmt.Print("Password: ")

				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}

				password = string(bytePassword)

				fmt.Println()
			}

			client, err := buildClient()
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			_, err = client.Auth().Login(ctx, username, password)
			if err != nil {
				return presentError(err, false)
			}

			config := loadConfig()
			config.Username = username

			if endpoint := viper.GetString("api"); endpoint != "" {
				config.API = endpoint
			}

			// The session token itself is persisted by the OnTokenRefresh
			// callback wired into the client.
			if err := saveConfigStruct(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("Successfully logged in to %s\n", config.API)

			if identity := client.Identity(); identity != nil {
				fmt.Printf("Signed in as %s (id %d)\n", identity.Username, identity.ID)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for credentials interactively")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored session",
		Long:  "Invalidate the server-side session and clear local credentials. Local state is cleared even when the server cannot be reached.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err == nil {
				ctx, cancel := commandContext()
				defer cancel()

				if logoutErr := client.Auth().Logout(ctx); logoutErr != nil {
					fmt.Fprintf(os.Stderr, "Warning: %v\n", logoutErr)
				}
			}

			config := loadConfig()
			config.Token = ""
			config.TokenExpiresAt = nil
			config.LastRefreshed = nil
			config.Username = ""

			if err := saveConfigStruct(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Println("Successfully logged out")

			return nil
		},
	}
}
