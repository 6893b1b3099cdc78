package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEnsureLayout(t *testing.T) {
	w := NewWorkspace(t.TempDir())
	if err := w.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout: %v", err)
	}

	for _, d := range []string{
		"data", "data/archive",
		"images", "images/archive",
		"analysis", "analysis/archive",
		"state",
	} {
		info, err := os.Stat(w.Path(d))
		if err != nil {
			t.Errorf("missing directory %s: %v", d, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", d)
		}
	}
}

func TestArchiveName(t *testing.T) {
	stamp := time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC)

	tests := []struct {
		base string
		want string
	}{
		{"events.csv", "events_20250601_120500.csv"},
		{"culprit_signals_analysis.png", "culprit_signals_analysis_20250601_120500.png"},
		{"analysis_report.txt", "analysis_report_20250601_120500.txt"},
		{"noext", "noext_20250601_120500"},
	}

	for _, tt := range tests {
		if got := ArchiveName(tt.base, stamp); got != tt.want {
			t.Errorf("ArchiveName(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestWriteLatestCreatesFileAndArchiveCopy(t *testing.T) {
	w := NewWorkspace(t.TempDir())
	if err := w.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	stamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := w.WriteLatest(EventsFile, []byte("a,b\n1,2\n"), stamp); err != nil {
		t.Fatalf("WriteLatest: %v", err)
	}

	latest, err := os.ReadFile(w.Path(EventsFile))
	if err != nil {
		t.Fatalf("latest file missing: %v", err)
	}
	if string(latest) != "a,b\n1,2\n" {
		t.Errorf("unexpected latest contents: %q", latest)
	}

	archived := w.Path("data/archive/events_20250601_120000.csv")
	copyData, err := os.ReadFile(archived)
	if err != nil {
		t.Fatalf("archive copy missing: %v", err)
	}
	if string(copyData) != "a,b\n1,2\n" {
		t.Errorf("archive copy differs from latest: %q", copyData)
	}
}

func TestArchiveIsStrictlyAdditive(t *testing.T) {
	w := NewWorkspace(t.TempDir())
	if err := w.EnsureLayout(); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		stamp := base.Add(time.Duration(i) * 10 * time.Second)
		data := []byte(strings.Repeat("x", i+1))
		if err := w.WriteLatest(EventsFile, data, stamp); err != nil {
			t.Fatalf("WriteLatest %d: %v", i, err)
		}
	}

	archived, err := w.ListArchive(EventsFile)
	if err != nil {
		t.Fatalf("ListArchive: %v", err)
	}
	if len(archived) != 3 {
		t.Fatalf("expected 3 archived files, got %d: %v", len(archived), archived)
	}

	// Latest holds the most recent write only.
	latest, _ := os.ReadFile(w.Path(EventsFile))
	if string(latest) != "xxx" {
		t.Errorf("latest = %q, want final write", latest)
	}

	// Newest first.
	if !strings.Contains(archived[0], "20250601_120020") {
		t.Errorf("expected newest first, got %v", archived)
	}
}

func TestArchiveLatest(t *testing.T) {
	w := NewWorkspace(t.TempDir())
	if err := w.EnsureLayout(); err != nil {
		t.Fatal(err)
	}

	// Simulate a renderer that wrote the plot directly.
	if err := os.WriteFile(w.Path(PlotFile), []byte("\x89PNG fake"), 0644); err != nil {
		t.Fatal(err)
	}

	stamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := w.ArchiveLatest(PlotFile, stamp); err != nil {
		t.Fatalf("ArchiveLatest: %v", err)
	}

	archived := w.Path("images/archive/culprit_signals_analysis_20250601_120000.png")
	if _, err := os.Stat(archived); err != nil {
		t.Errorf("archived plot missing: %v", err)
	}

	// Archiving a missing file reports an error.
	if err := w.ArchiveLatest("images/missing.png", stamp); err == nil {
		t.Error("expected error archiving nonexistent file")
	}
}

func TestLatestReportFallsBackToArchive(t *testing.T) {
	w := NewWorkspace(t.TempDir())
	if err := w.EnsureLayout(); err != nil {
		t.Fatal(err)
	}

	t.Run("no report anywhere", func(t *testing.T) {
		if _, err := w.LatestReport(); !os.IsNotExist(err) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})

	t.Run("archive fallback", func(t *testing.T) {
		old := w.Path("analysis/archive/analysis_report_20250601_110000.txt")
		newer := w.Path("analysis/archive/analysis_report_20250601_120000.txt")
		if err := os.WriteFile(old, []byte("old report"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(newer, []byte("newer report"), 0644); err != nil {
			t.Fatal(err)
		}

		got, err := w.LatestReport()
		if err != nil {
			t.Fatalf("LatestReport: %v", err)
		}
		if got != "newer report" {
			t.Errorf("expected newest archived report, got %q", got)
		}
	})

	t.Run("latest wins over archive", func(t *testing.T) {
		if err := os.WriteFile(w.Path(ReportFile), []byte("current"), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := w.LatestReport()
		if err != nil {
			t.Fatalf("LatestReport: %v", err)
		}
		if got != "current" {
			t.Errorf("expected current report, got %q", got)
		}
	})
}

func TestStat(t *testing.T) {
	w := NewWorkspace(t.TempDir())
	if err := w.EnsureLayout(); err != nil {
		t.Fatal(err)
	}

	if !w.Stat("data/events.csv").IsZero() {
		t.Error("expected zero time for missing file")
	}

	if err := os.WriteFile(w.Path(EventsFile), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if w.Stat(EventsFile).IsZero() {
		t.Error("expected non-zero mtime for existing file")
	}
}

func TestPathResolvesUnderRoot(t *testing.T) {
	w := NewWorkspace("/tmp/ws")
	if got := w.Path("data/events.csv"); got != filepath.Join("/tmp/ws", "data", "events.csv") {
		t.Errorf("Path() = %q", got)
	}
	if w.Root() != "/tmp/ws" {
		t.Errorf("Root() = %q", w.Root())
	}
}
