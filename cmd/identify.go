package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/appliedrecognition/face-template-r300/internal/config"
	"github.com/appliedrecognition/face-template-r300/internal/facetemplate"
)

var identifyCmd = &cobra.Command{
	Use:   "identify <probe> <directory>",
	Short: "Find images of the probe's face in a directory",
	Long: `Score the face in the probe image against the highest scoring face of
every image in a directory and list matches above the threshold.

Images are processed concurrently across files; each file still runs
the pipeline as a single unit of work.

Examples:
  # Search a photo library
  r300 identify me.jpg ~/photos

  # Stricter matching, more workers
  r300 identify me.jpg ~/photos --threshold 0.75 --concurrency 8

  # Output as JSON
  r300 identify me.jpg ~/photos --json`,
	Args: cobra.ExactArgs(2),
	RunE: runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)

	identifyCmd.Flags().Float64("threshold", 0.6, "Minimum score to report a match")
	identifyCmd.Flags().Int("concurrency", 4, "Number of images processed in parallel")
	identifyCmd.Flags().Bool("json", false, "Output as JSON")
}

// imageExtensions are the file types the identify scan picks up.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
}

// listImages returns the image files directly inside dir.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

func runIdentify(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	threshold := mustGetFloat64(cmd, "threshold")
	concurrency := mustGetInt(cmd, "concurrency")
	asJSON := mustGetBool(cmd, "json")

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

	paths, err := listImages(args[1])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Println("No images found")
		return nil
	}

	var bar *progressbar.ProgressBar
	if !asJSON {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("Scoring faces"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
	}

	var mu sync.Mutex
	var results []CompareResult
	var skipped int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			defer func() {
				if bar != nil {
					_ = bar.Add(1)
				}
			}()

			candidates, _, err := extractFromFile(gctx, extractor, det, path, 1)
			if err != nil {
				// Images without a usable face are skipped, not fatal.
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			scores, err := facetemplate.Compare(probe, candidates)
			if err != nil {
				return err
			}

			mu.Lock()
			results = append(results, CompareResult{
				Path:  path,
				Score: scores[0],
				Match: scores[0] >= threshold,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if bar != nil {
		fmt.Println()
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	var matches int
	for _, result := range results {
		if result.Match {
			fmt.Printf("%.4f  %s\n", result.Score, result.Path)
			matches++
		}
	}
	fmt.Printf("\n%d matches out of %d images (%d skipped)\n", matches, len(paths), skipped)
	return nil
}
