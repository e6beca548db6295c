package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	baseURL string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "auractl",
	Short: "CLI tool for the Aurascan analysis service",
	Long: `Auractl exercises a running Aurascan service from the command line.

It can submit an image for analysis, check whether the vision provider
is configured, and verify a checkout session's payment state.

Examples:
  auractl health
  auractl analyze face.jpg
  auractl verify cs_test_a1b2c3`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "http://localhost:8080", "Base URL of the Aurascan API")
}
