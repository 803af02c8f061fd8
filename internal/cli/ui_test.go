package cli

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ghoshnapatra/ghoshna/pkg/compress"
	"github.com/ghoshnapatra/ghoshna/pkg/declaration"
	"github.com/ghoshnapatra/ghoshna/pkg/history"
)

func TestFormatKB(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0.0 KB"},
		{512, "0.5 KB"},
		{20 * 1024, "20.0 KB"},
		{51300, "50.1 KB"},
	}
	for _, tt := range tests {
		if got := formatKB(tt.n); got != tt.want {
			t.Errorf("formatKB(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRecordTable(t *testing.T) {
	out := recordTable(declaration.Record{ApplicantName: "Ram Kumar", Age: "  "})

	if !strings.Contains(out, "Ram Kumar") {
		t.Errorf("table missing value:\n%s", out)
	}
	for _, f := range declaration.Fields {
		if !strings.Contains(out, f.Label()) {
			t.Errorf("table missing label %q", f.Label())
		}
	}
	if !strings.Contains(out, declaration.Placeholder(12)) {
		t.Errorf("blank fields should show placeholders:\n%s", out)
	}
}

func TestTraceTable(t *testing.T) {
	out := traceTable([]compress.Attempt{
		{Iteration: 1, Quality: 0.5, Size: 60 * 1024, Outcome: compress.OutcomeTooLarge},
		{Iteration: 2, Quality: 0.25, Outcome: compress.OutcomeNoData},
		{Iteration: 3, Quality: 0.375, Size: 30 * 1024, Outcome: compress.OutcomeInWindow},
	})

	for _, want := range []string{"0.5000", "60.0 KB", "too-large", "no-data", "—", "in-window", "30.0 KB"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace missing %q:\n%s", want, out)
		}
	}
}

func TestHistoryTable(t *testing.T) {
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	out := historyTable([]history.Entry{
		{RecordHash: "0123456789abcdef0123", Engine: "native", Size: 30 * 1024, Quality: 0.5, InWindow: true, CreatedAt: now.Add(-2 * time.Hour)},
		{RecordHash: "ffff", Engine: "chrome", Size: 55 * 1024, Quality: 0.1, Cached: true, CreatedAt: now.Add(-30 * time.Second)},
	}, now)

	for _, want := range []string{"native", "chrome", "30.0 KB", "2h ago", "just now", "0123456789ab", iconCached, iconFresh} {
		if !strings.Contains(out, want) {
			t.Errorf("history missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, iconWarning) {
		t.Errorf("an out-of-window entry should not carry a warning mark:\n%s", out)
	}
	if strings.Contains(out, "0123456789abcdef") {
		t.Error("record hash should be shortened")
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("formatRelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}

	old := now.Add(-30 * 24 * time.Hour)
	if got, want := formatRelativeTime(old, now), old.Local().Format("Jan 2, 2006"); got != want {
		t.Errorf("formatRelativeTime(old) = %q, want %q", got, want)
	}
}

func TestPrintExportStats(t *testing.T) {
	var buf strings.Builder
	uiOut = &buf
	t.Cleanup(func() { uiOut = os.Stdout })

	printExportStats(30*1024, 0.5, true)
	out := buf.String()
	for _, want := range []string{"30.0 KB", "quality 50", iconCached} {
		if !strings.Contains(out, want) {
			t.Errorf("stats missing %q: %q", want, out)
		}
	}
}
