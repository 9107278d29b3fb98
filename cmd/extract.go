package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/appliedrecognition/face-template-r300/internal/config"
	"github.com/appliedrecognition/face-template-r300/internal/facetemplate"
)

var extractCmd = &cobra.Command{
	Use:   "extract <image>",
	Short: "Extract face templates from an image",
	Long: `Extract one R300 template per detected face. Faces are detected
on-device, aligned, and sent to the configured recognition server for
embedding extraction. Templates are printed as JSON.

Requires R300_SERVER_URL and R300_API_KEY.

Examples:
  # Print templates for every face to stdout
  r300 extract photo.jpg

  # Only the highest scoring face
  r300 extract photo.jpg --limit 1

  # Write templates to a file
  r300 extract photo.jpg --output templates.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Int("limit", 0, "Limit number of faces (0 = no limit)")
	extractCmd.Flags().String("output", "", "Write templates to a file instead of stdout")
}

// extractOutput pairs every template with the face it came from.
type extractOutput struct {
	Face     facetemplate.FaceRegion `json:"face"`
	Template facetemplate.Template   `json:"template"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	extractor, det, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	templates, faces, err := extractFromFile(context.Background(), extractor, det, args[0], mustGetInt(cmd, "limit"))
	if err != nil {
		return err
	}

	output := make([]extractOutput, 0, len(templates))
	for i, tmpl := range templates {
		output = append(output, extractOutput{Face: faces[i], Template: tmpl})
	}

	out := os.Stdout
	if path := mustGetString(cmd, "output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
		defer fmt.Printf("Wrote %d templates to %s\n", len(output), path)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
