package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/appliedrecognition/face-template-r300/internal/config"
	"github.com/appliedrecognition/face-template-r300/internal/facetemplate"
)

var compareCmd = &cobra.Command{
	Use:   "compare <probe> <candidate>...",
	Short: "Compare faces across images",
	Long: `Compare the face in the probe image with the faces in one or more
candidate images. Each image contributes its highest scoring face.
Scores are cosine similarities in [0, 1]; higher means more similar.

Examples:
  # Compare two photos
  r300 compare me.jpg other.jpg

  # Score one probe against several candidates
  r300 compare me.jpg a.jpg b.jpg c.jpg

  # Adjust the match threshold
  r300 compare me.jpg other.jpg --threshold 0.7

  # Output as JSON
  r300 compare me.jpg other.jpg --json`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().Float64("threshold", 0.6, "Minimum score to report a match")
	compareCmd.Flags().Bool("json", false, "Output as JSON")
}

// CompareResult is one probe/candidate score.
type CompareResult struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
	Match bool    `json:"match"`
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	threshold := mustGetFloat64(cmd, "threshold")

	extractor, det, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	probeTemplates, _, err := extractFromFile(ctx, extractor, det, args[0], 1)
	if err != nil {
		return fmt.Errorf("probe %s: %w", args[0], err)
	}
	probe := probeTemplates[0]

	results := make([]CompareResult, 0, len(args)-1)
	for _, path := range args[1:] {
		candidates, _, err := extractFromFile(ctx, extractor, det, path, 1)
		if err != nil {
			return fmt.Errorf("candidate %s: %w", path, err)
		}
		scores, err := facetemplate.Compare(probe, candidates)
		if err != nil {
			return err
		}
		results = append(results, CompareResult{
			Path:  path,
			Score: scores[0],
			Match: scores[0] >= threshold,
		})
	}

	if mustGetBool(cmd, "json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CANDIDATE\tSCORE\tMATCH")
	for _, result := range results {
		match := ""
		if result.Match {
			match = "yes"
		}
		fmt.Fprintf(w, "%s\t%.4f\t%s\n", result.Path, result.Score, match)
	}
	return w.Flush()
}
