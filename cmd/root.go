package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "r300",
	Short: "Extract and compare R300 face templates",
	Long: `r300 is a CLI for the R300 face template pipeline. It detects faces
on-device, aligns them, sends the aligned crops to a recognition server
for template extraction and scores templates against each other with
cosine similarity.

Configuration comes from environment variables (optionally via a .env
file): R300_SERVER_URL and R300_API_KEY select the recognition server,
R300_FACEFINDER_PATH and R300_PUPLOC_PATH point at the detector
cascade files.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
