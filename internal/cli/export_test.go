package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/ghoshnapatra/ghoshna/pkg/compress"
	"github.com/ghoshnapatra/ghoshna/pkg/config"
	"github.com/ghoshnapatra/ghoshna/pkg/declaration"
	"github.com/ghoshnapatra/ghoshna/pkg/errors"
	pkgio "github.com/ghoshnapatra/ghoshna/pkg/io"
	"github.com/ghoshnapatra/ghoshna/pkg/pipeline"
	"github.com/ghoshnapatra/ghoshna/pkg/session"
)

func TestBuildRecord(t *testing.T) {
	dir := t.TempDir()
	recordFile := filepath.Join(dir, "ram.toml")
	content := `applicant_name = "Ram Kumar"
father_name = "Shyam Lal"
age = "34"
place = "Lucknow"
`
	if err := os.WriteFile(recordFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 3, 9, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		args []string
		opts exportOpts
		want declaration.Record
	}{
		{
			name: "flags only",
			args: []string{"--name", "Sita Devi", "--age", "29"},
			want: declaration.Record{ApplicantName: "Sita Devi", Age: "29"},
		},
		{
			name: "record file",
			opts: exportOpts{record: recordFile},
			want: declaration.Record{ApplicantName: "Ram Kumar", FatherName: "Shyam Lal", Age: "34", Place: "Lucknow"},
		},
		{
			name: "flags override file",
			args: []string{"--age", "35", "--occupation", "Farmer"},
			opts: exportOpts{record: recordFile},
			want: declaration.Record{ApplicantName: "Ram Kumar", FatherName: "Shyam Lal", Age: "35", Occupation: "Farmer", Place: "Lucknow"},
		},
		{
			name: "empty flag clears file value",
			args: []string{"--place", ""},
			opts: exportOpts{record: recordFile},
			want: declaration.Record{ApplicantName: "Ram Kumar", FatherName: "Shyam Lal", Age: "34"},
		},
		{
			name: "today wins over date",
			args: []string{"--date", "2020-01-01"},
			opts: exportOpts{today: true},
			want: declaration.Record{Date: "2025-03-09"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "export"}
			values := bindFieldFlags(cmd)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}

			got, err := buildRecord(cmd, tt.opts, values, now)
			if err != nil {
				t.Fatalf("buildRecord: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildRecordMissingFile(t *testing.T) {
	cmd := &cobra.Command{Use: "export"}
	values := bindFieldFlags(cmd)

	_, err := buildRecord(cmd, exportOpts{record: filepath.Join(t.TempDir(), "none.toml")}, values, time.Now())
	if err == nil {
		t.Fatal("expected error for missing record file")
	}
}

func TestFieldFlagsCoverEveryField(t *testing.T) {
	seen := make(map[declaration.Field]bool)
	for _, ff := range fieldFlags {
		seen[ff.field] = true
	}
	for _, f := range declaration.Fields {
		if !seen[f] {
			t.Errorf("no flag for field %q", f)
		}
	}
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "content unavailable",
			err:  errors.New(errors.ErrCodeContentUnavailable, "document missing"),
			want: msgContentFailed + ": document missing",
		},
		{
			name: "in progress",
			err:  errors.New(errors.ErrCodeExportInProgress, "busy"),
			want: msgExportInProgress + ": busy",
		},
		{
			name: "incomplete shows only the prompt",
			err:  errors.New(errors.ErrCodeValidationIncomplete, "कृपया सभी फ़ील्ड भरें"),
			want: "कृपया सभी फ़ील्ड भरें",
		},
		{
			name: "encoding",
			err:  errors.New(errors.ErrCodeEncodingFailed, "no data"),
			want: msgExportFailed + ": no data",
		},
		{
			name: "plain error",
			err:  fmt.Errorf("disk full"),
			want: msgExportFailed + ": disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failureMessage(tt.err); got != tt.want {
				t.Errorf("failureMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReported(t *testing.T) {
	base := errors.New(errors.ErrCodeEncodingFailed, "no data")

	if Reported(base) {
		t.Error("plain error should not be reported")
	}
	if Reported(nil) {
		t.Error("nil should not be reported")
	}
	if reported(nil) != nil {
		t.Error("reported(nil) should be nil")
	}

	err := fmt.Errorf("export: %w", reported(base))
	if !Reported(err) {
		t.Error("wrapped reported error should be detected")
	}
	if !errors.Is(err, errors.ErrCodeEncodingFailed) {
		t.Error("reported error should keep its code")
	}
	if !stderrors.Is(err, base) {
		t.Error("reported error should unwrap to its cause")
	}
}

func TestPrintNudges(t *testing.T) {
	var buf strings.Builder
	uiOut = &buf
	t.Cleanup(func() { uiOut = os.Stdout })

	printNudges(nil)
	if buf.Len() != 0 {
		t.Fatalf("no nudges should print nothing, got %q", buf.String())
	}

	printNudges([]session.Flag{session.FlagShare, session.FlagFeedback})
	out := buf.String()
	for _, want := range []string{msgNudgeShare, shareLink, msgNudgeFeedback, feedbackLink} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReportExportOutsideWindow(t *testing.T) {
	var logs bytes.Buffer
	c := New(&logs, log.DebugLevel)
	var buf strings.Builder
	uiOut = &buf
	t.Cleanup(func() { uiOut = os.Stdout })

	res := &pipeline.Result{
		Artifact: &pkgio.Artifact{
			Name:     pkgio.FileName("Ram"),
			Data:     make([]byte, 60*1024),
			Quality:  0.1,
			InWindow: false,
		},
		Compression: &compress.Result{Attempts: []compress.Attempt{
			{Iteration: 1, Quality: 0.5, Size: 90 * 1024, Outcome: compress.OutcomeTooLarge},
			{Iteration: 9, Quality: 0.1, Size: 60 * 1024, Outcome: compress.OutcomeFallback},
		}},
	}
	c.reportExport(res, config.Default(), exportOpts{trace: true})

	out := buf.String()
	if !strings.Contains(out, "60.0 KB") || !strings.Contains(out, "fallback") {
		t.Errorf("summary missing size or trace:\n%s", out)
	}
	for _, alert := range []string{iconWarning, "outside", "window", "fit"} {
		if strings.Contains(out, alert) {
			t.Errorf("a size outside the window must not be shown as an alert, found %q:\n%s", alert, out)
		}
	}
	if !strings.Contains(logs.String(), "size outside window") {
		t.Errorf("window miss should be logged at debug, got %q", logs.String())
	}
}

// isolate points every XDG directory at a temp dir and returns a CLI whose
// config file does not exist, so defaults apply.
func isolate(t *testing.T) (*CLI, string) {
	t.Helper()
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))

	var buf strings.Builder
	uiOut = &buf
	t.Cleanup(func() { uiOut = os.Stdout })

	return New(io.Discard, log.InfoLevel), base
}

func runRoot(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out strings.Builder
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExportCommandIncomplete(t *testing.T) {
	c, base := isolate(t)
	outDir := filepath.Join(base, "out")

	_, err := runRoot(t, c, "export", "--name", "Ram Kumar", "-o", outDir)
	if !errors.Is(err, errors.ErrCodeValidationIncomplete) {
		t.Fatalf("error = %v, want %s", err, errors.ErrCodeValidationIncomplete)
	}
	if !Reported(err) {
		t.Error("validation failure should already be reported")
	}
	if _, statErr := os.Stat(outDir); !os.IsNotExist(statErr) {
		t.Error("nothing should be written when validation fails")
	}
}

func TestExportCommandBadEngine(t *testing.T) {
	c, _ := isolate(t)

	_, err := runRoot(t, c, "export", "--force", "--engine", "gpu")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestExportCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("renders a full page")
	}
	c, base := isolate(t)
	outDir := filepath.Join(base, "out")

	_, err := runRoot(t, c, "export",
		"--name", "Ram Kumar", "--father", "Shyam Lal", "--age", "34", "--year", "2025",
		"--occupation", "Farmer", "--address", "Village Rampur", "--place", "Lucknow",
		"--date", "2025-03-09", "-o", outDir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	path := filepath.Join(outDir, pkgio.FileName("Ram Kumar"))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("artifact is not a JPEG")
	}

	// A second export lands next to the first instead of replacing it.
	if _, err := runRoot(t, c, "export", "--force", "--name", "Ram Kumar", "-o", outDir); err != nil {
		t.Fatalf("second export: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, pkgio.CandidateName(pkgio.FileName("Ram Kumar"), 2))); err != nil {
		t.Errorf("second artifact: %v", err)
	}

	out, err := runRoot(t, c, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if !strings.Contains(out, "native") {
		t.Errorf("history should list the native exports:\n%s", out)
	}
}
