package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vidconv/internal/errors"
	"vidconv/internal/ffmpeg"
	"vidconv/internal/ffmpeg/ffmpegtest"
)

func TestRunnerProbe(t *testing.T) {
	r := NewRunner(Options{FFmpegPath: ffmpegtest.Install(t)}, nil)

	info := r.Probe(context.Background())
	if !info.Installed {
		t.Fatal("fake ffmpeg should be reported as installed")
	}
	if info.Version != "6.1.1-fake" {
		t.Errorf("Version = %q; want 6.1.1-fake", info.Version)
	}
}

func TestRunnerProbeMissing(t *testing.T) {
	r := NewRunner(Options{FFmpegPath: filepath.Join(t.TempDir(), "ffmpeg")}, nil)

	info := r.Probe(context.Background())
	if info == nil || info.Installed {
		t.Errorf("info = %+v; want not installed", info)
	}
}

func TestRunnerConvert(t *testing.T) {
	var lastFraction float32
	reporter := NewUIReporter(nil, func(f float32, _ string) { lastFraction = f }, nil, nil)
	r := NewRunner(Options{FFmpegPath: ffmpegtest.Install(t)}, reporter)
	video := ffmpegtest.Video(t, "clip.webm")

	output, err := r.Convert(context.Background(), video, ffmpeg.TargetGIF)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	want := filepath.Join(filepath.Dir(video), "dist", "clip.gif")
	if output != want {
		t.Errorf("output = %q; want %q", output, want)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("output not written: %v", err)
	}
	if lastFraction != 1 {
		t.Errorf("last progress = %f; want 1", lastFraction)
	}
	if r.IsWorking() {
		t.Error("runner should be idle after Convert returns")
	}
}

func TestRunnerConvertOverwrites(t *testing.T) {
	outDir := t.TempDir()
	r := NewRunner(Options{FFmpegPath: ffmpegtest.Install(t), OutputDir: outDir}, nil)
	video := ffmpegtest.Video(t, "clip.webm")

	existing := filepath.Join(outDir, "clip.mp4")
	if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := r.Convert(context.Background(), video, ffmpeg.TargetMP4)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "old" {
		t.Error("existing output should have been replaced")
	}
}

func TestRunnerConvertOutputDirIsFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "out")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	r := NewRunner(Options{FFmpegPath: ffmpegtest.Install(t), OutputDir: blocker}, nil)

	_, err := r.Convert(context.Background(), ffmpegtest.Video(t, "clip.webm"), ffmpeg.TargetMP4)
	if !errors.Is(err, errors.ErrOutputDirIsFile) {
		t.Errorf("err = %v; want ErrOutputDirIsFile", err)
	}
}

func TestRunnerConvertWithoutFFmpeg(t *testing.T) {
	r := NewRunner(Options{FFmpegPath: filepath.Join(t.TempDir(), "ffmpeg")}, nil)

	_, err := r.Convert(context.Background(), ffmpegtest.Video(t, "clip.webm"), ffmpeg.TargetMP4)
	if !errors.Is(err, errors.ErrFFmpegNotFound) {
		t.Errorf("err = %v; want ErrFFmpegNotFound", err)
	}
}

func TestRunnerCancel(t *testing.T) {
	t.Setenv("FAKE_FFMPEG_SLEEP", "5")
	r := NewRunner(Options{FFmpegPath: ffmpegtest.Install(t)}, nil)
	video := ffmpegtest.Video(t, "long.webm")

	done := make(chan error, 1)
	go func() {
		_, err := r.Convert(context.Background(), video, ffmpeg.TargetMP4)
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !r.IsWorking() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if _, err := r.Convert(context.Background(), video, ffmpeg.TargetGIF); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Convert = %v; want ErrBusy", err)
	}

	// Give ffmpeg a moment to start before cancelling.
	time.Sleep(100 * time.Millisecond)
	r.Cancel()

	select {
	case err := <-done:
		if !errors.IsCancelled(err) {
			t.Errorf("err = %v; want cancellation", err)
		}
	case <-time.After(4 * time.Second):
		t.Fatal("Convert did not return after Cancel")
	}
}

func TestRunnerConvertCancelledBeforeStart(t *testing.T) {
	outDir := t.TempDir()
	r := NewRunner(Options{FFmpegPath: ffmpegtest.Install(t), OutputDir: outDir}, nil)

	existing := filepath.Join(outDir, "clip.mp4")
	if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Convert(ctx, ffmpegtest.Video(t, "clip.webm"), ffmpeg.TargetMP4)
	if !errors.IsCancelled(err) {
		t.Errorf("err = %v; want cancellation", err)
	}
	if data, _ := os.ReadFile(existing); string(data) != "old" {
		t.Error("a cancelled conversion should not touch the existing output")
	}
	if r.IsWorking() {
		t.Error("runner should be idle")
	}
}

func TestRunnerWithMachine(t *testing.T) {
	r := NewRunner(Options{FFmpegPath: ffmpegtest.Install(t)}, nil)
	m := NewMachine(r)
	video := ffmpegtest.Video(t, "clip.webm")

	run(t, m, m.Init()(context.Background()))
	run(t, m, FileDropped{Paths: []string{video}})
	run(t, m, Submit{Target: ffmpeg.TargetMP4})

	s := m.State()
	if s.Phase != PhaseComplete {
		t.Fatalf("state = %+v; want complete", s)
	}
	if filepath.Base(s.Output) != "clip.mp4" {
		t.Errorf("Output = %q; want clip.mp4", s.Output)
	}
}
