package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vidconv/internal/app"
	"vidconv/internal/errors"
	"vidconv/internal/ffmpeg"
	"vidconv/internal/fileops"
	"vidconv/internal/log"
	"vidconv/internal/util"
)

func init() {
	// Silence Cobra's default error/usage printing - we handle it ourselves
	convertCmd.SilenceErrors = true
	convertCmd.SilenceUsage = true
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert video files to MP4 or GIF",
	Long: `Convert one or more video files with ffmpeg.

Output goes to the configured output_dir, or to a "dist" directory next to
each input. An existing output file is only replaced with --yes.

Examples:
  # Convert a screen recording to MP4
  vidconv convert -i recording.webm

  # Convert to GIF into a specific directory
  vidconv convert -i clip.mov -t gif -o ~/gifs

  # Convert several files, replacing previous results
  vidconv convert -i 'captures/*.webm' -t mp4 -y`,
	RunE: runConvert,
}

// Convert flags
var (
	convInput  []string
	convTarget string
	convOutput string
	convFFmpeg string
	convYes    bool
	convQuiet  bool
)

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringArrayVarP(&convInput, "input", "i", nil, "Input video(s) to convert (can be specified multiple times, globs allowed)")
	convertCmd.Flags().StringVarP(&convTarget, "target", "t", "mp4", "Target format: mp4 or gif")
	convertCmd.Flags().StringVarP(&convOutput, "output", "o", "", "Output directory (default: output_dir from config, else <input dir>/dist)")
	convertCmd.Flags().StringVar(&convFFmpeg, "ffmpeg", "", "Path to the ffmpeg binary (default: ffmpeg_path from config, else search)")
	convertCmd.Flags().BoolVarP(&convYes, "yes", "y", false, "Overwrite existing output files")
	convertCmd.Flags().BoolVarP(&convQuiet, "quiet", "q", false, "Suppress progress output")

	_ = convertCmd.MarkFlagRequired("input")
}

// expandInputs resolves glob patterns and rejects anything that is not a regular file.
func expandInputs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, errors.NewFileError("stat", pattern, os.ErrNotExist)
		}
		for _, match := range matches {
			if !fileops.IsRegularFile(match) {
				return nil, fmt.Errorf("%w: %s", errors.ErrNotAFile, match)
			}
			files = append(files, match)
		}
	}
	return files, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	reporter := NewReporter(convQuiet)

	if len(convInput) == 0 {
		reporter.PrintError("%v (-i)", errors.ErrNoInputFiles)
		return errors.ErrNoInputFiles
	}
	target, err := ffmpeg.ParseTarget(convTarget)
	if err != nil {
		reporter.PrintError("%v", err)
		return err
	}
	inputs, err := expandInputs(convInput)
	if err != nil {
		reporter.PrintError("%v", err)
		return err
	}

	opts := app.Options{FFmpegPath: convFFmpeg, OutputDir: convOutput}
	if cfg != nil {
		if opts.FFmpegPath == "" {
			opts.FFmpegPath = cfg.FFmpegPath
		}
		if opts.OutputDir == "" {
			opts.OutputDir = cfg.OutputDir
		}
	}
	runner := app.NewRunner(opts, reporter)

	ctx := commandContext(cmd)
	converted, failed := 0, 0
	for _, input := range inputs {
		output, err := runner.Plan(input, target)
		if err == nil && fileops.Exists(output) && !convYes {
			err = fmt.Errorf("%w: %s (use --yes to overwrite)", errors.ErrFileExists, output)
		}
		if err != nil {
			reporter.PrintError("%v", err)
			failed++
			continue
		}

		reporter.Start(filepath.Base(input))
		output, err = runner.Convert(ctx, input, target)
		reporter.Finish()

		if errors.IsCancelled(err) {
			reporter.PrintError("conversion cancelled")
			reporter.PrintSummary(converted, failed+1)
			return err
		}
		if err != nil {
			reporter.PrintError("%v", err)
			failed++
			continue
		}

		converted++
		size := ""
		if stat, err := os.Stat(output); err == nil {
			size = " (" + util.Sizeify(stat.Size()) + ")"
		}
		reporter.PrintSuccess("%s -> %s%s", input, output, size)
	}

	reporter.PrintSummary(converted, failed)
	log.Info("convert finished", log.Int("converted", converted), log.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errors.ErrConversionFailed, failed, len(inputs))
	}
	return nil
}
