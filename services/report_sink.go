package services

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReportSink receives finished report files. Put must write the whole file
// or fail; callers never get a handle to a truncated report.
type ReportSink interface {
	Put(name string, data []byte) (string, error)
}

// DirSink writes reports into a local directory, staging through a temp file
// so an interrupted write never leaves a half-written report behind. The
// returned handle is the final file path.
type DirSink struct {
	Dir string
}

// Put writes data to Dir under the given name.
func (s DirSink) Put(name string, data []byte) (string, error) {
	info, err := os.Stat(s.Dir)
	if err != nil {
		return "", fmt.Errorf("output directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("output path %s is not a directory", s.Dir)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write report file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close report file: %w", err)
	}

	target := filepath.Join(s.Dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("finalize report file: %w", err)
	}
	return target, nil
}
