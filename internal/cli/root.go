package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"vidconv/internal/config"
	"vidconv/internal/log"
)

// Version is set by main.go
var Version = "dev"

// rootCmd is the base command when called without subcommands
var rootCmd = &cobra.Command{
	Use:   "vidconv",
	Short: "Convert videos to MP4 or GIF with ffmpeg",
	Long: `vidconv converts video files to MP4 or GIF by running ffmpeg.

Run without arguments to open the drag-and-drop window. Settings are read from
vidconv.yaml in the working directory or the user config directory, and can be
overridden with VIDCONV_* environment variables.`,
	Version:           Version,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

// Persistent flags
var (
	cfgFile  string
	logLevel string
	logFile  string
)

// cfg is the configuration resolved for the running command.
var cfg *config.Config

var closeLog func() error

// cliCommands are the first arguments that select CLI mode.
var cliCommands = map[string]bool{
	"convert": true, "check": true,
	"help": true, "--help": true, "-h": true,
	"--version": true, "-v": true,
}

// persistentFlags take a value and may precede the subcommand.
var persistentFlags = map[string]bool{"--config": true, "--log-level": true, "--log-file": true}

// IsCLIInvocation reports whether args (without the program name) ask for the CLI.
func IsCLIInvocation(args []string) bool {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if name, _, ok := strings.Cut(arg, "="); ok && persistentFlags[name] {
			continue
		}
		if persistentFlags[arg] {
			i++
			continue
		}
		return cliCommands[arg]
	}
	return false
}

// Execute runs the CLI application.
// Returns true if CLI mode was activated, false if GUI should run instead.
func Execute(version string) bool {
	Version = version
	rootCmd.Version = version

	if !IsCLIInvocation(os.Args[1:]) {
		return false
	}

	// Set up signal handling for graceful cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nCancelling conversion...")
		cancel()
		<-sigChan
		os.Exit(1)
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
	return true
}

// commandContext returns the command's context, which is nil when RunE is called directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, closeLog, err = configure(cmd.Flags())
	if err != nil {
		errorStyle.Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}

// configure loads the config named by --config and starts logging. The
// --log-level and --log-file flags override the config when set.
func configure(flags *pflag.FlagSet) (*config.Config, func() error, error) {
	c, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	level, file := c.LogLevel, c.LogFile
	if flags.Changed("log-level") {
		level = logLevel
	}
	if flags.Changed("log-file") {
		file = logFile
	}
	closer, err := log.Setup(level, file)
	if err != nil {
		return nil, nil, err
	}
	if c.File != "" {
		log.Debug("using config file", log.String("path", c.File))
	}
	return c, closer, nil
}

// SetupGUI handles a launch that is not a CLI invocation. The persistent
// flags in args are applied as for any command, then the config is loaded and
// logging started. The remaining arguments are returned, e.g. files passed by
// "Open with".
func SetupGUI(args []string) (*config.Config, func() error, []string, error) {
	flags := rootCmd.PersistentFlags()
	if err := flags.Parse(args); err != nil {
		return nil, nil, nil, err
	}
	c, closer, err := configure(flags)
	if err != nil {
		return nil, nil, nil, err
	}
	return c, closer, flags.Args(), nil
}

func teardown(cmd *cobra.Command, args []string) {
	if closeLog != nil {
		_ = closeLog()
		closeLog = nil
	}
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./vidconv.yaml or <user config dir>/vidconv/vidconv.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error or off")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
}
