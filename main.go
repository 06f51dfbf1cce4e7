package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/ZacxDev/vertical-splitter/pkg/types"
	"github.com/ZacxDev/vertical-splitter/pkg/videoprocessor"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "vertical-splitter",
		Short: "Normalize videos to 9:16 and split them into short segments",
		Long: `vertical-splitter processes every video of an input directory: it crops or pads
each one to a 9:16 frame in place, drops a lead-in, and cuts the rest into
fixed-length video-only segments.

Examples:
  # Process ./tosplit into ./splitted with the defaults (120s chunks, 30s skip)
  vertical-splitter run

  # See what would be done, without touching anything
  vertical-splitter plan -i ./raw --chunk 60 --skip 1m

  # Keep going past failures, 4 concurrent cuts
  vertical-splitter run --failure-policy isolate -w 4`,
		SilenceUsage: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Normalize and split every video in the input directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := videoprocessor.SplitDirectory(ctx, &opts)
			if report != nil {
				fmt.Print(report.Summary())
			}
			if err != nil {
				return err
			}
			if report.Failed() {
				return fmt.Errorf("one or more files failed")
			}
			return nil
		},
	}

	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Print the normalization and segment plan without changing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			plans, err := videoprocessor.PlanDirectory(ctx, &opts)
			for _, p := range plans {
				fmt.Printf("%s: %.0fs, %dx%d ratio %.4f, %s %s\n",
					p.Path, p.Duration, p.Aspect.Width, p.Aspect.Height, p.Aspect.Ratio, p.Aspect.Action, p.Aspect.Filter)
				for _, seg := range p.Segments {
					fmt.Printf("  %03d  %7.0fs  +%.0fs\n", seg.Index, seg.Start, seg.Duration)
				}
			}
			return err
		},
	}

	profilesCmd = &cobra.Command{
		Use:   "profiles",
		Short: "List the encoding profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMAX\tCODEC\tNORMALIZE\tCUT\tFORMAT")
			for _, p := range videoprocessor.Profiles() {
				fmt.Fprintf(w, "%s\t%ds\t%s\t%s/crf %d\t%s/crf %d\t%s\n",
					p.Name, p.MaxDuration, p.Codec, p.NormalizePreset, p.NormalizeCRF, p.CutPreset, p.CutCRF, p.Format)
			}
			return w.Flush()
		},
	}
)

// loadOptions layers the changed flags over the environment over the defaults.
func loadOptions(cmd *cobra.Command) (videoprocessor.Options, error) {
	flags := cmd.Flags()

	envFile, _ := flags.GetString("env-file")
	opts, err := videoprocessor.LoadOptions(envFile)
	if err != nil {
		return opts, err
	}

	if flags.Changed("input") {
		opts.InputDir, _ = flags.GetString("input")
	}
	if flags.Changed("output") {
		opts.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("extension") {
		opts.Extension, _ = flags.GetString("extension")
	}
	if flags.Changed("chunk") {
		opts.ChunkDuration, _ = flags.GetInt("chunk")
	}
	if flags.Changed("skip") {
		opts.Skip, _ = flags.GetString("skip")
	}
	if flags.Changed("aspect-tolerance") {
		opts.AspectTolerance, _ = flags.GetFloat64("aspect-tolerance")
	}
	if flags.Changed("workers") {
		opts.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("failure-policy") {
		policy, _ := flags.GetString("failure-policy")
		opts.FailurePolicy = types.FailurePolicy(strings.ToLower(policy))
	}
	if flags.Changed("target-platform") {
		opts.TargetPlatform, _ = flags.GetString("target-platform")
	}
	if flags.Changed("probe-timeout") {
		opts.ProbeTimeout, _ = flags.GetDuration("probe-timeout")
	}
	if flags.Changed("normalize-timeout") {
		opts.NormalizeTimeout, _ = flags.GetDuration("normalize-timeout")
	}
	if flags.Changed("cut-timeout") {
		opts.CutTimeout, _ = flags.GetDuration("cut-timeout")
	}
	if flags.Changed("s3-bucket") {
		opts.S3Bucket, _ = flags.GetString("s3-bucket")
	}
	if flags.Changed("s3-region") {
		opts.S3Region, _ = flags.GetString("s3-region")
	}
	if flags.Changed("s3-prefix") {
		opts.S3Prefix, _ = flags.GetString("s3-prefix")
	}
	opts.Verbose, _ = flags.GetBool("verbose")

	return opts, nil
}

func addBatchFlags(cmd *cobra.Command) {
	defaults := videoprocessor.DefaultOptions()
	f := cmd.Flags()

	f.StringP("input", "i", defaults.InputDir, "Directory holding the videos to process")
	f.StringP("output", "o", defaults.OutputDir, "Directory segments are written to")
	f.String("extension", defaults.Extension, "Extension of input files, matched case-insensitively")
	f.IntP("chunk", "d", defaults.ChunkDuration, "Duration of each segment in seconds")
	f.StringP("skip", "s", defaults.Skip, "Lead-in to drop from every video (e.g. '30s', '1m', '45')")
	f.Float64("aspect-tolerance", defaults.AspectTolerance, "Allowed distance from a 16/9 height/width ratio")
	f.IntP("workers", "w", defaults.Workers, "Segments cut concurrently per file")
	f.String("failure-policy", string(defaults.FailurePolicy),
		fmt.Sprintf("What a failure does to the rest of the batch (%s, %s)", types.FailurePolicyAbort, types.FailurePolicyIsolate))
	f.StringP("target-platform", "t", defaults.TargetPlatform,
		fmt.Sprintf("Encoding profile (%s)", strings.Join(videoprocessor.GetSupportedPlatforms(), ", ")))
	f.Duration("probe-timeout", 0, "Limit on each ffprobe call, 0 for the built-in default")
	f.Duration("normalize-timeout", 0, "Limit on each normalize re-encode, 0 for none")
	f.Duration("cut-timeout", 0, "Limit on each segment cut, 0 for none")
	f.String("s3-bucket", "", "Upload finished segments to this S3 bucket")
	f.String("s3-region", "", "Region of the S3 bucket")
	f.String("s3-prefix", "", "Key prefix for uploaded segments")
	f.String("env-file", ".env", "Load VSPLIT_* variables from this file when it exists")
	f.BoolP("verbose", "v", false, "Enable verbose logging")
}

func init() {
	addBatchFlags(runCmd)
	addBatchFlags(planCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(profilesCmd)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
