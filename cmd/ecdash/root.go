package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/carbonview/dashboard/config"
	"github.com/carbonview/dashboard/internal/carbonapi"
	"github.com/carbonview/dashboard/internal/dashboard/service"
	"github.com/carbonview/dashboard/internal/session"
	"github.com/carbonview/dashboard/internal/viewstate"
)

var (
	flagAPIURL  string
	flagToken   string
	flagUser    string
	flagTimeout time.Duration
	flagLayout  string
)

var rootCmd = &cobra.Command{
	Use:           "ecdash",
	Short:         "Embodied carbon dashboard CLI",
	Long:          "Inspect project breakdowns, carbon flows and version history from the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", envOr("CARBON_API_URL", "http://localhost:8000"), "Carbon backend base URL")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", os.Getenv("ECDASH_TOKEN"), "Bearer token forwarded to the backend")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", envOr("ECDASH_USER", session.DemoUser), "User id sent as X-User-Id")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", carbonapi.DefaultTimeout, "Backend request timeout")
	rootCmd.PersistentFlags().StringVar(&flagLayout, "flow-layout", os.Getenv("FLOW_LAYOUT_FILE"), "YAML file of pre-known flow node names")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newService() (*service.Service, error) {
	layout, err := config.LoadFlowLayout(flagLayout)
	if err != nil {
		return nil, err
	}
	client := carbonapi.New(carbonapi.Options{BaseURL: flagAPIURL, Timeout: flagTimeout})
	return service.New(client, service.Options{Flow: layout.Options()}), nil
}

func identity() session.Identity {
	return session.Identity{UserID: flagUser, Token: flagToken}
}

// resultErr turns a failed fetch into a command error carrying the
// backend's explanation.
func resultErr[T any](res viewstate.Result[T]) error {
	switch res.Status {
	case viewstate.StatusReady:
		return nil
	case viewstate.StatusError:
		if d := res.Detail(); d != "" {
			return fmt.Errorf("%s: %s", res.Message(), d)
		}
		return fmt.Errorf("%s: %w", res.Message(), res.Err)
	}
	return errors.New("project has no processed version yet")
}
