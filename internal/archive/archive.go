// Package archive owns the on-disk workspace: the fixed locations of
// the latest artifacts, and the append-only archive directories that
// accumulate a timestamped copy of every artifact each cycle.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// StampFormat is the timestamp suffix layout for archived artifacts.
const StampFormat = "20060102_150405"

// Well-known artifact locations relative to the workspace root.
const (
	EventsFile  = "data/events.csv"
	SensorsFile = "data/sensors.csv"
	PlotFile    = "images/culprit_signals_analysis.png"
	ReportFile  = "analysis/analysis_report.txt"
	StateDir    = "state"
)

// Workspace is a rooted artifact directory tree. All paths handed to
// its methods are relative to the root.
type Workspace struct {
	root string
}

// NewWorkspace returns a workspace rooted at dir.
func NewWorkspace(dir string) *Workspace {
	return &Workspace{root: dir}
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string {
	return w.root
}

// Path resolves a workspace-relative path.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(w.root, rel)
}

// EnsureLayout creates the workspace directory tree.
func (w *Workspace) EnsureLayout() error {
	dirs := []string{
		"data", "data/archive",
		"images", "images/archive",
		"analysis", "analysis/archive",
		StateDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(w.Path(d), 0755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

// ArchiveName builds the archived filename for a base name and stamp:
// "events.csv" + 20250601_120500 -> "events_20250601_120500.csv".
func ArchiveName(base string, stamp time.Time) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_%s%s", stem, stamp.Format(StampFormat), ext)
}

// WriteLatest writes data to the workspace-relative path and then
// copies it into the sibling archive directory under a stamped name.
// The latest file is always written; an archive copy failure is
// returned so the caller can log it, but the latest write stands.
func (w *Workspace) WriteLatest(rel string, data []byte, stamp time.Time) error {
	path := w.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s dir: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return w.archiveCopy(rel, data, stamp)
}

// ArchiveLatest copies an already-written latest file into its archive
// directory. Used for artifacts produced directly at their final path
// (the plot renderer writes its own PNG).
func (w *Workspace) ArchiveLatest(rel string, stamp time.Time) error {
	data, err := os.ReadFile(w.Path(rel))
	if err != nil {
		return fmt.Errorf("read %s for archive: %w", rel, err)
	}
	return w.archiveCopy(rel, data, stamp)
}

func (w *Workspace) archiveCopy(rel string, data []byte, stamp time.Time) error {
	dir := filepath.Dir(rel)
	base := filepath.Base(rel)
	archived := filepath.Join(dir, "archive", ArchiveName(base, stamp))

	path := w.Path(archived)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create archive dir for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("archive %s: %w", rel, err)
	}
	return nil
}

// ListArchive returns the archived files for a latest-file path,
// newest first by name (the stamp suffix sorts chronologically).
func (w *Workspace) ListArchive(rel string) ([]string, error) {
	dir := w.Path(filepath.Join(filepath.Dir(rel), "archive"))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read archive dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, filepath.Join(dir, e.Name()))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// LatestReport returns the current analysis report, falling back to
// the newest archived report when the latest file is missing.
func (w *Workspace) LatestReport() (string, error) {
	data, err := os.ReadFile(w.Path(ReportFile))
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("read report: %w", err)
	}

	archived, err := w.ListArchive(ReportFile)
	if err != nil {
		return "", err
	}
	if len(archived) == 0 {
		return "", os.ErrNotExist
	}
	data, err = os.ReadFile(archived[0])
	if err != nil {
		return "", fmt.Errorf("read archived report: %w", err)
	}
	return string(data), nil
}

// Stat returns the modification time of a workspace-relative file, or
// the zero time when it does not exist.
func (w *Workspace) Stat(rel string) time.Time {
	info, err := os.Stat(w.Path(rel))
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
