package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"photo-timeline/internal/exif"
	"photo-timeline/internal/fetcher"
	"photo-timeline/internal/histogram"
	"photo-timeline/internal/library"
	"photo-timeline/internal/metadata"
	"photo-timeline/internal/views"
	"photo-timeline/internal/workers"
)

// scanOptions are shared by scan and histogram.
type scanOptions struct {
	dir        string
	recursive  bool
	location   *time.Location
	workers    int
	buckets    int
	noProgress bool
	decoder    fetcher.Decoder
}

// scanResult is the outcome of one pass over a directory.
type scanResult struct {
	dir       string
	records   []metadata.PhotoRecord
	failures  int
	locations views.LocationView
	timeline  views.DateView
	histogram *histogram.Histogram
}

func newScanCmd(v *viper.Viper) *cobra.Command {
	var (
		asJSON bool
		asToon bool
	)

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Decode a photo directory and print its location and date views",
		Long: `Decode every photo in <dir> and print the located photos, the timeline
and the capture time histogram.

Examples:
  photoscan scan ./photos
  photoscan scan ./photos --recursive
  photoscan scan ./photos --timezone America/New_York --toon`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && asToon {
				return errors.New("--json and --toon are mutually exclusive")
			}
			opts, err := resolveScanOptions(cmd, v, args[0])
			if err != nil {
				return err
			}
			res, err := scanDirectory(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return writeJSONReport(out, res)
			case asToon:
				return writeToonReport(out, res)
			default:
				writeTableReport(out, res)
				return nil
			}
		},
	}

	addScanFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&asToon, "toon", false, "Output as TOON")

	return cmd
}

func newHistogramCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "histogram <dir>",
		Short: "Print the capture time histogram of a photo directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveScanOptions(cmd, v, args[0])
			if err != nil {
				return err
			}
			res, err := scanDirectory(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			writeHistogram(cmd.OutOrStdout(), res.histogram)
			return nil
		},
	}

	addScanFlags(cmd)

	return cmd
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("recursive", false, "Descend into subdirectories (env RECURSIVE)")
	cmd.Flags().String("timezone", "UTC", "Zone for timestamps without an offset (env TIMEZONE)")
	cmd.Flags().Int("workers", 0, "Concurrent decodes, 0 sizes from CPU count (env DECODE_WORKERS)")
	cmd.Flags().Int("buckets", histogram.DefaultBuckets, "Histogram bucket count")
	cmd.Flags().Bool("no-progress", false, "Hide the progress bar")
}

// resolveScanOptions binds the running command's flags so that a flag set on
// the command line wins over the environment.
func resolveScanOptions(cmd *cobra.Command, v *viper.Viper, dir string) (scanOptions, error) {
	_ = v.BindPFlag("RECURSIVE", cmd.Flags().Lookup("recursive"))
	_ = v.BindPFlag("TIMEZONE", cmd.Flags().Lookup("timezone"))
	_ = v.BindPFlag(workers.EnvOverride, cmd.Flags().Lookup("workers"))

	loc, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return scanOptions{}, fmt.Errorf("invalid timezone: %w", err)
	}

	buckets, _ := cmd.Flags().GetInt("buckets")
	if buckets < 1 {
		return scanOptions{}, fmt.Errorf("--buckets must be at least 1, got %d", buckets)
	}
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	return scanOptions{
		dir:        dir,
		recursive:  v.GetBool("RECURSIVE"),
		location:   loc,
		workers:    v.GetInt(workers.EnvOverride),
		buckets:    buckets,
		noProgress: noProgress,
	}, nil
}

// scanDirectory runs the enumerate, decode and index pipeline once.
func scanDirectory(ctx context.Context, opts scanOptions, progress io.Writer) (*scanResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	lib := library.New(library.Options{Dir: opts.dir, URLPrefix: "/photos", Recursive: opts.recursive})
	if !lib.Exists() {
		return nil, fmt.Errorf("photo directory %s does not exist", opts.dir)
	}

	refs, err := lib.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing photos: %w", err)
	}

	decoder := opts.decoder
	if decoder == nil {
		decoder = exif.NewDecoder()
	}

	fetchOpts := fetcher.Options{
		Workers:  opts.workers,
		Resolver: metadata.NewResolver(opts.location),
	}
	if !opts.noProgress && len(refs) > 0 {
		bar := pb.New(len(refs)).SetWriter(progress).Start()
		defer bar.Finish()
		fetchOpts.OnProgress = func(_, _ int) { bar.Increment() }
	}

	results := fetcher.New(decoder, fetchOpts).Fetch(ctx, refs)

	res := &scanResult{dir: opts.dir, records: make([]metadata.PhotoRecord, len(results))}
	for i, r := range results {
		res.records[i] = r.Record
		if !r.OK() {
			res.failures++
		}
	}
	res.locations, res.timeline = views.Index(res.records)

	hist, err := histogram.Build(views.Timestamps(res.timeline), opts.buckets)
	switch {
	case errors.Is(err, histogram.ErrEmptyInput):
	case err != nil:
		return nil, fmt.Errorf("building histogram: %w", err)
	default:
		res.histogram = &hist
	}

	return res, nil
}
