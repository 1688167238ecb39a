package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidconv/internal/config"
	"vidconv/internal/errors"
	"vidconv/internal/ffmpeg/ffmpegtest"
)

func resetConvertFlags() {
	convInput = nil
	convTarget = "mp4"
	convOutput = ""
	convFFmpeg = ""
	convYes = false
	convQuiet = true
	cfg = nil
}

func bufferedReporter(quiet bool) (*Reporter, *bytes.Buffer) {
	var buf bytes.Buffer
	r := NewReporter(quiet)
	r.out = &buf
	r.interactive = false
	return r, &buf
}

func TestReporter(t *testing.T) {
	t.Run("NewReporter", func(t *testing.T) {
		r := NewReporter(false)
		if r == nil {
			t.Fatal("NewReporter returned nil")
		}
		if r.quiet {
			t.Error("quiet should be false")
		}

		r = NewReporter(true)
		if !r.quiet {
			t.Error("quiet should be true")
		}
	})

	t.Run("SetStatus", func(t *testing.T) {
		r := NewReporter(false)
		r.SetStatus("test status")
		if r.status != "test status" {
			t.Errorf("expected 'test status', got %q", r.status)
		}
	})

	t.Run("SetProgress", func(t *testing.T) {
		r := NewReporter(false)
		r.SetProgress(0.5, "50%")
		if r.progress != 0.5 {
			t.Errorf("expected progress 0.5, got %f", r.progress)
		}
		if r.info != "50%" {
			t.Errorf("expected info '50%%', got %q", r.info)
		}
	})

	t.Run("SetCanCancel", func(t *testing.T) {
		r := NewReporter(false)
		// Should be a no-op, just ensure it doesn't panic
		r.SetCanCancel(true)
		r.SetCanCancel(false)
	})
}

func TestReporterOutput(t *testing.T) {
	t.Run("plain output prints each step once", func(t *testing.T) {
		r, buf := bufferedReporter(false)
		r.Start("clip.webm")

		for _, f := range []float32{0, 0.05, 0.5, 0.55, 1} {
			r.SetProgress(f, "")
			r.SetStatus("Converting")
			r.Update()
		}
		r.Finish()

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 lines (0%%, 50%%, 100%%), got %d: %q", len(lines), buf.String())
		}
		if !strings.Contains(lines[1], " 50% ") || !strings.HasPrefix(lines[1], "clip.webm:") {
			t.Errorf("unexpected line %q", lines[1])
		}
	})

	t.Run("quiet mode suppresses output", func(t *testing.T) {
		r, buf := bufferedReporter(true)
		r.Start("clip.webm")
		r.SetStatus("test")
		r.SetProgress(0.5, "50%")
		r.Update()
		r.Finish()
		r.PrintSuccess("done")
		r.PrintSummary(1, 0)

		if buf.Len() != 0 {
			t.Errorf("quiet mode should not produce output, got: %q", buf.String())
		}
	})

	t.Run("errors are printed even when quiet", func(t *testing.T) {
		r, buf := bufferedReporter(true)
		r.PrintError("%s failed", "clip.webm")
		if !strings.Contains(buf.String(), "Error: clip.webm failed") {
			t.Errorf("unexpected error output %q", buf.String())
		}
	})

	t.Run("summary", func(t *testing.T) {
		r, buf := bufferedReporter(false)
		r.PrintSummary(2, 1)
		if !strings.Contains(buf.String(), "2 files converted, 1 file failed") {
			t.Errorf("unexpected summary %q", buf.String())
		}
	})
}

func TestSummary(t *testing.T) {
	tests := []struct {
		converted, failed int
		want              string
	}{
		{1, 0, "1 file converted"},
		{3, 0, "3 files converted"},
		{0, 2, "0 files converted, 2 files failed"},
	}
	for _, tt := range tests {
		if got := summary(tt.converted, tt.failed); got != tt.want {
			t.Errorf("summary(%d, %d) = %q; want %q", tt.converted, tt.failed, got, tt.want)
		}
	}
}

func TestSetupGUI(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	cfgPath := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(cfgPath, []byte("output_dir: "+outDir+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(dir, "vidconv.log")
	defer func() { cfgFile, logLevel, logFile = "", "warn", "" }()

	c, closer, files, err := SetupGUI([]string{
		"--config", cfgPath, "--log-level=debug", "--log-file", logPath, "clip.webm",
	})
	if err != nil {
		t.Fatalf("SetupGUI failed: %v", err)
	}
	if err := closer(); err != nil {
		t.Errorf("closing log: %v", err)
	}

	if c.OutputDir != outDir {
		t.Errorf("OutputDir = %q; want %q from --config", c.OutputDir, outDir)
	}
	if len(files) != 1 || files[0] != "clip.webm" {
		t.Errorf("files = %v; want [clip.webm]", files)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "using config file") {
		t.Errorf("expected a debug line in the log, got %q", data)
	}

	if _, _, _, err := SetupGUI([]string{"--config", filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Error("a missing --config file should fail the launch")
	}
}

func TestIsCLIInvocation(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"convert", "-i", "a.webm"}, true},
		{[]string{"check"}, true},
		{[]string{"--help"}, true},
		{[]string{"--version"}, true},
		{[]string{"--config", "my.yaml", "convert"}, true},
		{[]string{"--log-level=debug", "check"}, true},
		{[]string{"--config", "my.yaml"}, false},
		{[]string{"video.webm"}, false},
		{[]string{"-psn_0_12345"}, false},
	}
	for _, tt := range tests {
		if got := IsCLIInvocation(tt.args); got != tt.want {
			t.Errorf("IsCLIInvocation(%q) = %v; want %v", tt.args, got, tt.want)
		}
	}
}

func TestConvertValidation(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		resetConvertFlags()
		err := convertCmd.RunE(convertCmd, []string{})
		if !errors.Is(err, errors.ErrNoInputFiles) {
			t.Errorf("expected ErrNoInputFiles, got %v", err)
		}
	})

	t.Run("unsupported target", func(t *testing.T) {
		resetConvertFlags()
		convInput = []string{ffmpegtest.Video(t, "a.webm")}
		convTarget = "avi"
		err := convertCmd.RunE(convertCmd, []string{})
		if !errors.Is(err, errors.ErrUnsupportedTarget) {
			t.Errorf("expected ErrUnsupportedTarget, got %v", err)
		}
	})

	t.Run("input not found", func(t *testing.T) {
		resetConvertFlags()
		convInput = []string{filepath.Join(t.TempDir(), "missing.webm")}
		err := convertCmd.RunE(convertCmd, []string{})
		var fe *errors.FileError
		if !errors.As(err, &fe) {
			t.Errorf("expected FileError, got %v", err)
		}
	})

	t.Run("directory input", func(t *testing.T) {
		resetConvertFlags()
		convInput = []string{t.TempDir()}
		err := convertCmd.RunE(convertCmd, []string{})
		if !errors.Is(err, errors.ErrNotAFile) {
			t.Errorf("expected ErrNotAFile, got %v", err)
		}
	})
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.webm", "b.webm", "c.mov"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("test"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := expandInputs([]string{filepath.Join(dir, "*.webm"), filepath.Join(dir, "c.mov")})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Errorf("expected 3 files, got %d: %v", len(files), files)
	}

	if _, err := expandInputs([]string{filepath.Join(dir, "*.xyz")}); err == nil {
		t.Error("expected error for glob with no matches")
	}
	if _, err := expandInputs([]string{"[bad"}); err == nil {
		t.Error("expected error for malformed glob")
	}
}

func TestConvertWithFFmpeg(t *testing.T) {
	resetConvertFlags()
	defer resetConvertFlags()

	outDir := t.TempDir()
	convFFmpeg = ffmpegtest.Install(t)
	convInput = []string{ffmpegtest.Video(t, "clip.webm")}
	convTarget = "gif"
	convOutput = outDir

	if err := convertCmd.RunE(convertCmd, []string{}); err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	output := filepath.Join(outDir, "clip.gif")
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output %s: %v", output, err)
	}

	t.Run("existing output without --yes", func(t *testing.T) {
		if err := os.WriteFile(output, []byte("keep me"), 0644); err != nil {
			t.Fatal(err)
		}
		err := convertCmd.RunE(convertCmd, []string{})
		if !errors.Is(err, errors.ErrConversionFailed) {
			t.Errorf("expected failure summary error, got %v", err)
		}
		data, _ := os.ReadFile(output)
		if string(data) != "keep me" {
			t.Error("existing output should not be touched without --yes")
		}
	})

	t.Run("existing output with --yes", func(t *testing.T) {
		convYes = true
		if err := convertCmd.RunE(convertCmd, []string{}); err != nil {
			t.Fatalf("convert failed: %v", err)
		}
		data, _ := os.ReadFile(output)
		if string(data) == "keep me" {
			t.Error("existing output should be replaced with --yes")
		}
	})

	t.Run("config supplies output dir", func(t *testing.T) {
		convOutput = ""
		cfgDir := t.TempDir()
		cfg = &config.Config{OutputDir: cfgDir}
		if err := convertCmd.RunE(convertCmd, []string{}); err != nil {
			t.Fatalf("convert failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(cfgDir, "clip.gif")); err != nil {
			t.Errorf("expected output in configured dir: %v", err)
		}
	})
}

func TestConvertFailureContinues(t *testing.T) {
	resetConvertFlags()
	defer resetConvertFlags()
	t.Setenv("FAKE_FFMPEG_FAIL", "Invalid data found when processing input")

	convFFmpeg = ffmpegtest.Install(t)
	convInput = []string{ffmpegtest.Video(t, "a.webm"), ffmpegtest.Video(t, "b.webm")}
	convOutput = t.TempDir()

	err := convertCmd.RunE(convertCmd, []string{})
	if !errors.Is(err, errors.ErrConversionFailed) {
		t.Fatalf("expected ErrConversionFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "2 of 2") {
		t.Errorf("expected both files reported as failed, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		checkFFmpeg = ffmpegtest.Install(t)
		defer func() { checkFFmpeg = "" }()

		var out bytes.Buffer
		checkCmd.SetOut(&out)
		defer checkCmd.SetOut(nil)

		if err := checkCmd.RunE(checkCmd, []string{}); err != nil {
			t.Fatalf("check failed: %v", err)
		}
		if !strings.Contains(out.String(), "ffmpeg 6.1.1-fake") {
			t.Errorf("expected version in output, got %q", out.String())
		}
		if !strings.Contains(out.String(), "ffprobe: "+filepath.Dir(checkFFmpeg)) {
			t.Errorf("expected ffprobe path in output, got %q", out.String())
		}
	})

	t.Run("missing", func(t *testing.T) {
		checkFFmpeg = filepath.Join(t.TempDir(), "ffmpeg")
		defer func() { checkFFmpeg = "" }()

		var errOut bytes.Buffer
		checkCmd.SetErr(&errOut)
		defer checkCmd.SetErr(nil)

		err := checkCmd.RunE(checkCmd, []string{})
		if !errors.Is(err, errors.ErrFFmpegNotFound) {
			t.Errorf("expected ErrFFmpegNotFound, got %v", err)
		}
		if !strings.Contains(errOut.String(), "ffmpeg not found") {
			t.Errorf("unexpected stderr %q", errOut.String())
		}
	})

	t.Run("broken", func(t *testing.T) {
		checkFFmpeg = ffmpegtest.InstallBroken(t)
		defer func() { checkFFmpeg = "" }()
		var errOut bytes.Buffer
		checkCmd.SetErr(&errOut)
		defer checkCmd.SetErr(nil)

		if err := checkCmd.RunE(checkCmd, []string{}); !errors.Is(err, errors.ErrFFmpegNotFound) {
			t.Errorf("expected ErrFFmpegNotFound, got %v", err)
		}
		if !strings.Contains(errOut.String(), "is not a working ffmpeg") {
			t.Errorf("unexpected stderr %q", errOut.String())
		}
	})
}
