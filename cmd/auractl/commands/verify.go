package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurascan/aurascan/internal/client"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <session-id>",
	Short: "Verify a checkout session's payment state",
	Long: `Verify whether a checkout session has been paid and finalized.

Examples:
  auractl verify cs_test_a1b2c3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(baseURL)

		result, err := c.VerifySession(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}

		fmt.Printf("paid: %v (payment_status=%s, status=%s)\n",
			result.Paid, result.PaymentStatus, result.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
