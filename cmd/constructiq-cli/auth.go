package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/TheDeveloper404/ConstructionIQ/internal/auth"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Long:  `Authenticate against the backend and save the token to the credentials file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = c.creds.Credentials().Email
			}
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := c.readLine(cmd)
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = line
			}

			result, err := c.client.Login(cmd.Context(), strings.TrimSpace(email), password)
			if err != nil {
				return err
			}

			if err := c.creds.Save(auth.Credentials{
				APIBaseURL:  c.baseURL,
				Email:       result.User.Email,
				AccessToken: result.AccessToken,
			}); err != nil {
				return err
			}

			name := result.User.Email
			if name == "" {
				name = email
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
			if result.DemoMode {
				fmt.Fprintln(cmd.OutOrStdout(), "Demo mode is active; data may be reset at any time.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c.creds.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.client.Me(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Email:   %s\n", user.Email)
			fmt.Fprintf(out, "Role:    %s\n", user.Role)
			fmt.Fprintf(out, "Org:     %s\n", user.OrgID)
			fmt.Fprintf(out, "Backend: %s\n", c.baseURL)
			if claims, err := auth.ParseClaims(c.creds.Token()); err == nil && claims.ExpiresAt != nil {
				fmt.Fprintf(out, "Expires: %s\n", claims.ExpiresAt.Time.Local().Format(time.RFC3339))
			}
			return nil
		},
	}
}
