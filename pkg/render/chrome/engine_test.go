package chrome

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/ghoshnapatra/ghoshna/pkg/declaration"
	"github.com/ghoshnapatra/ghoshna/pkg/document"
	"github.com/ghoshnapatra/ghoshna/pkg/render"
)

func TestFileURL(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/tmp/x/index.html", "file:///tmp/x/index.html"},
		{"tmp/index.html", "file:///tmp/index.html"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := fileURL(tt.path); got != tt.want {
				t.Errorf("fileURL(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	e := New()
	if e.Name() != Name {
		t.Errorf("Name() = %q, want %q", e.Name(), Name)
	}
	if e.settle != DefaultSettle {
		t.Errorf("settle = %v, want %v", e.settle, DefaultSettle)
	}

	e = New(WithExecPath("/opt/chrome"), WithSettle(time.Second))
	if e.execPath != "/opt/chrome" || e.settle != time.Second {
		t.Errorf("options not applied: %+v", e)
	}
	if n := len(e.allocatorOptions()); n <= len(New().allocatorOptions()) {
		t.Errorf("exec path option not added to allocator options")
	}
}

// TestRender needs a local Chrome; set GHOSHNA_CHROME_TESTS=1 to run it.
func TestRender(t *testing.T) {
	if os.Getenv("GHOSHNA_CHROME_TESTS") == "" {
		t.Skip("set GHOSHNA_CHROME_TESTS=1 to run headless Chrome tests")
	}
	if _, err := exec.LookPath("google-chrome"); err != nil {
		if _, err := exec.LookPath("chromium"); err != nil {
			t.Skip("chrome not installed")
		}
	}

	page := document.A4()
	tgt, err := render.NewTarget(document.Build(declaration.Record{ApplicantName: "Ram"}, page), page)
	if err != nil {
		t.Fatalf("NewTarget: %v", err)
	}
	defer tgt.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	bmp, err := render.Rasterize(ctx, New(), tgt, render.DefaultScale)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if bmp.Width() != page.Width*2 {
		t.Errorf("width = %d, want %d", bmp.Width(), page.Width*2)
	}
}
