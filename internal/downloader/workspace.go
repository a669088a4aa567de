package downloader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// VideoExt is the container extension produced by the executor
const VideoExt = ".mp4"

// Workspace hands out isolated per-download directories under a base dir
type Workspace struct {
	baseDir string
}

// NewWorkspace creates the base directory if needed
func NewWorkspace(baseDir string) (*Workspace, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}
	return &Workspace{baseDir: baseDir}, nil
}

// BaseDir returns the root of all job directories
func (w *Workspace) BaseDir() string {
	return w.baseDir
}

// Job is one isolated download directory
type Job struct {
	ID  string
	Dir string
}

// Acquire creates a fresh directory for a single download
func (w *Workspace) Acquire() (*Job, error) {
	id := uuid.NewString()
	dir := filepath.Join(w.baseDir, id)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create job dir: %w", err)
	}
	return &Job{ID: id, Dir: dir}, nil
}

// Release removes the job directory and everything in it
func (j *Job) Release() error {
	return os.RemoveAll(j.Dir)
}

// OutputTemplate is the yt-dlp output template inside the job directory
func (j *Job) OutputTemplate() string {
	return filepath.Join(j.Dir, "%(title)s.%(ext)s")
}

// FindVideo returns the first *.mp4 in the job directory.
// ok is false when there is none.
func (j *Job) FindVideo() (path string, size int64, ok bool, err error) {
	entries, err := os.ReadDir(j.Dir)
	if err != nil {
		return "", 0, false, fmt.Errorf("read job dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), VideoExt) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", 0, false, nil
	}
	sort.Strings(names)

	path = filepath.Join(j.Dir, names[0])
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, false, fmt.Errorf("stat video: %w", err)
	}
	return path, info.Size(), true, nil
}

// Purge removes leftover job directories from previous runs
func (w *Workspace) Purge() (int, error) {
	entries, err := os.ReadDir(w.baseDir)
	if err != nil {
		return 0, fmt.Errorf("read download dir: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := uuid.Parse(e.Name()); err != nil {
			continue
		}
		if err := os.RemoveAll(filepath.Join(w.baseDir, e.Name())); err != nil {
			return removed, fmt.Errorf("remove stale job dir: %w", err)
		}
		removed++
	}
	return removed, nil
}
