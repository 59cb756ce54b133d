// Package main is the entry point for the ConstructIQ CLI tool.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/auth"
	"github.com/TheDeveloper404/ConstructionIQ/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

// cli is the state shared by every command of one invocation.
type cli struct {
	cfg   *config.Config
	creds *auth.FileStore

	apiURL     string
	configPath string
	yes        bool

	baseURL string
	client  *api.Client
	input   *bufio.Reader
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "constructiq-cli",
		Short:         "ConstructIQ procurement CLI",
		Long:          `Command line access to ConstructIQ suppliers, RFQs, quotes, prices and alerts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.apiURL, "api", "", "Backend base URL (default API_BASE_URL or the logged-in profile)")
	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "Credentials file (default CLI_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&c.yes, "yes", "y", false, "Answer yes to confirmation prompts")

	rootCmd.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.dashboardCmd(),
		c.listCmd(),
		c.browseCmd(),
		c.showCmd(),
		c.deleteCmd(),
		c.rfqCmd(),
		c.quoteCmd(),
		c.priceHistoryCmd(),
		c.alertsCmd(),
		c.exportCmd(),
		c.exportsCmd(),
		c.demoCmd(),
	)
	return rootCmd
}

// setup loads configuration and credentials and builds the API client.
// Logs go to stderr at warn level so command output stays clean.
func (c *cli) setup(cmd *cobra.Command) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	c.cfg = config.Load()
	path := c.configPath
	if path == "" {
		path = c.cfg.CLIConfigPath
	}

	creds, err := auth.OpenFileStore(path)
	if err != nil {
		return err
	}
	c.creds = creds

	c.baseURL = c.apiURL
	if c.baseURL == "" {
		c.baseURL = creds.Credentials().APIBaseURL
	}
	if c.baseURL == "" {
		c.baseURL = c.cfg.APIBaseURL
	}
	c.client = api.New(c.baseURL, api.WithTokenStore(creds))
	return nil
}

// errorLine renders err as the single stderr line of a failed command.
func errorLine(err error) string {
	switch {
	case api.IsUnauthorized(err):
		return "Error: session expired or not logged in, run `constructiq-cli login`"
	case errors.Is(err, errDeclined):
		return "Aborted."
	}
	if apiErr, ok := api.AsError(err); ok {
		return "Error: " + api.Message(apiErr, apiErr.Error())
	}
	return "Error: " + err.Error()
}
