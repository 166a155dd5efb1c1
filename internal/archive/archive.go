// Package archive unpacks the nightly ALFOSC data archives into the raw
// directory layout the other tools expect.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specred/specred/internal/log"
)

// Night names the files of one observing night below the raw directory
type Night struct {
	RawDir string
	Date   string
}

// Zip is the archive path, e.g. raw/20190930.zip
func (n Night) Zip() string {
	return filepath.Join(n.RawDir, n.Date+".zip")
}

// Dir is the flattened frame directory, e.g. raw/20190930
func (n Night) Dir() string {
	return filepath.Join(n.RawDir, n.Date)
}

// InstrumentDir is where the archive puts the frames
func (n Night) InstrumentDir() string {
	return filepath.Join(n.Dir(), "alfosc")
}

// Unpack extracts every file of the zip at src below dest, overwriting
// existing files. Entries escaping dest are rejected.
func Unpack(src, dest string) (int, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", src, err)
	}
	defer r.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, f := range r.File {
		target := filepath.Join(root, filepath.FromSlash(f.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return n, fmt.Errorf("archive entry %q escapes %s", f.Name, dest)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return n, err
			}
			continue
		}
		if err := extract(f, target); err != nil {
			return n, fmt.Errorf("extracting %s: %w", f.Name, err)
		}
		n++
	}
	return n, nil
}

func extract(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// framePatterns are the locations below the night directory holding frames
var framePatterns = []string{
	filepath.Join("alfosc", "A*fits"),
	filepath.Join("alfosc", "calib", "A*fits"),
}

// Flatten moves the science and calibration frames from the instrument
// subdirectories up into the night directory
func Flatten(n Night) ([]string, error) {
	var moved []string
	for _, pattern := range framePatterns {
		matches, err := filepath.Glob(filepath.Join(n.Dir(), pattern))
		if err != nil {
			return moved, err
		}
		sort.Strings(matches)
		for _, m := range matches {
			dst := filepath.Join(n.Dir(), filepath.Base(m))
			if err := os.Rename(m, dst); err != nil {
				return moved, fmt.Errorf("moving %s: %w", m, err)
			}
			moved = append(moved, dst)
		}
	}
	if len(moved) == 0 {
		log.Warnf("no frames found below %s", n.InstrumentDir())
	}
	return moved, nil
}

// Cleanup removes the emptied instrument directory and the archive
func Cleanup(n Night) error {
	if err := os.RemoveAll(n.InstrumentDir()); err != nil {
		return err
	}
	if err := os.Remove(n.Zip()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
