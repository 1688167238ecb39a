// Package fileops provides the filesystem bookkeeping around a conversion:
// validating dropped inputs, deriving the output path, and making room for it.
//
// ffmpeg itself never decides where output goes or whether to overwrite. The
// destination is planned here and any previous file is removed before ffmpeg starts.
package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vidconv/internal/errors"
	"vidconv/internal/ffmpeg"
	"vidconv/internal/log"
)

// DefaultDirName is the directory created next to the source when no output
// directory is configured.
const DefaultDirName = "dist"

// fallbackStem names the output when the source has no usable file name.
const fallbackStem = "output"

// IsRegularFile reports whether path exists and is a regular file (following symlinks).
func IsRegularFile(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular()
}

// Exists reports whether anything exists at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// OutputPath derives <dir>/<stem><ext> for src. An empty dir means
// <directory of src>/dist.
func OutputPath(src string, target ffmpeg.Target, dir string) string {
	if dir == "" {
		dir = filepath.Join(filepath.Dir(src), DefaultDirName)
	}
	return filepath.Join(dir, stem(src)+target.Extension())
}

func stem(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return fallbackStem
	}
	// ".webm" keeps its name, matching how a dot-file has no extension.
	if strings.HasPrefix(base, ".") && strings.Count(base, ".") == 1 {
		return base
	}
	if s := strings.TrimSuffix(base, filepath.Ext(base)); s != "" {
		return s
	}
	return fallbackStem
}

// Plan validates src and returns the output path for it.
func Plan(src string, target ffmpeg.Target, dir string) (string, error) {
	stat, err := os.Stat(src)
	if err != nil {
		return "", errors.NewFileError("stat", src, err)
	}
	if !stat.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", errors.ErrNotAFile, src)
	}

	dst := OutputPath(src, target, dir)
	if sameFile(src, dst) {
		return "", fmt.Errorf("%w: %s", errors.ErrSameFile, dst)
	}
	return dst, nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	statA, errA := os.Stat(a)
	statB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(statA, statB)
}

// PrepareOutput makes sure ffmpeg can write dst: the parent directory is
// created if missing and an existing file at dst is removed.
func PrepareOutput(dst string) error {
	dir := filepath.Dir(dst)

	stat, err := os.Stat(dir)
	switch {
	case err == nil && !stat.IsDir():
		return fmt.Errorf("%w: %s", errors.ErrOutputDirIsFile, dir)
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewFileError("mkdir", dir, err)
		}
		log.Debug("created output directory", log.String("dir", dir))
	case err != nil:
		return errors.NewFileError("stat", dir, err)
	}

	stat, err = os.Lstat(dst)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return errors.NewFileError("stat", dst, err)
	case stat.IsDir():
		return fmt.Errorf("%w: %s", errors.ErrOutputIsDir, dst)
	}

	if err := os.Remove(dst); err != nil {
		return errors.NewFileError("remove", dst, err)
	}
	log.Info("removed existing output", log.String("path", dst))
	return nil
}
