package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurascan/aurascan/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check service health",
	Long: `Check whether the service is reachable and whether the vision
provider credential is configured.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(baseURL)

		health, err := c.Health(context.Background())
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}

		fmt.Printf("vision configured: %v\n", health.VisionConfigured)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
