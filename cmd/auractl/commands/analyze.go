package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurascan/aurascan/internal/client"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image-file>",
	Short: "Submit an image for facial analysis",
	Long: `Submit an image file to the analyze endpoint and print the
resulting report JSON.

Examples:
  auractl analyze face.jpg
  auractl analyze --base-url https://aurascan.example.com face.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(baseURL)

		report, err := c.AnalyzeFile(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, report, "", "  "); err != nil {
			fmt.Println(string(report))
			return nil
		}
		fmt.Println(pretty.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
