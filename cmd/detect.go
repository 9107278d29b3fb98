package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/appliedrecognition/face-template-r300/internal/config"
)

var detectCmd = &cobra.Command{
	Use:   "detect <image>",
	Short: "Detect faces in an image using the on-device detector",
	Long: `Detect faces in an image file and print their bounding boxes and eye
landmarks. Only the local pigo detector is used; no network calls are
made.

Examples:
  # List all detected faces
  r300 detect photo.jpg

  # Keep only the two highest scoring faces
  r300 detect photo.jpg --limit 2

  # Output as JSON
  r300 detect photo.jpg --json`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().Int("limit", 0, "Limit number of faces (0 = no limit)")
	detectCmd.Flags().Bool("json", false, "Output as JSON")
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	det, err := newDetector(cfg)
	if err != nil {
		return err
	}

	img, err := loadImage(args[0])
	if err != nil {
		return err
	}

	faces, err := det.DetectFaces(context.Background(), img, mustGetInt(cmd, "limit"))
	if err != nil {
		return err
	}

	if mustGetBool(cmd, "json") {
		return json.NewEncoder(os.Stdout).Encode(faces)
	}

	if len(faces) == 0 {
		fmt.Println("No faces found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tBOUNDS\tLEFT EYE\tRIGHT EYE\tSCORE")
	for i, face := range faces {
		fmt.Fprintf(w, "%d\t%v\t(%.0f, %.0f)\t(%.0f, %.0f)\t%.1f\n",
			i, face.Bounds,
			face.LeftEye.X, face.LeftEye.Y,
			face.RightEye.X, face.RightEye.Y,
			face.Score)
	}
	return w.Flush()
}
