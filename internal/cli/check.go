package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidconv/internal/ffmpeg"
)

func init() {
	checkCmd.SilenceErrors = true
	checkCmd.SilenceUsage = true
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkFFmpeg, "ffmpeg", "", "Path to the ffmpeg binary (default: ffmpeg_path from config, else search)")
}

var checkFFmpeg string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that ffmpeg is installed",
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := checkFFmpeg
	if path == "" && cfg != nil {
		path = cfg.FFmpegPath
	}

	out := cmd.OutOrStdout()
	info := ffmpeg.Detect(commandContext(cmd), path)
	if !info.Installed {
		errorStyle.Fprint(cmd.ErrOrStderr(), "Error: ")
		if info.Path == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "ffmpeg not found. Install ffmpeg or set ffmpeg_path.")
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s is not a working ffmpeg: %v\n", info.Path, info.Err)
		}
		return info.Err
	}

	successStyle.Fprintf(out, "ffmpeg %s\n", info.Version)
	fmt.Fprintf(out, "  path:    %s\n", info.Path)
	if info.ProbePath != "" {
		fmt.Fprintf(out, "  ffprobe: %s\n", info.ProbePath)
	} else {
		fmt.Fprintln(out, "  ffprobe: not found (progress will be indeterminate)")
	}
	return nil
}
