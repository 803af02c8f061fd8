package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ghoshnapatra/ghoshna/pkg/declaration"
	pkgio "github.com/ghoshnapatra/ghoshna/pkg/io"
)

func TestConfirmModelUpdate(t *testing.T) {
	tests := []struct {
		name          string
		key           tea.KeyMsg
		wantConfirmed bool
		wantCancelled bool
		wantQuit      bool
	}{
		{"enter confirms", tea.KeyMsg{Type: tea.KeyEnter}, true, false, true},
		{"y confirms", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, true, false, true},
		{"q cancels", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, false, true, true},
		{"n cancels", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, false, true, true},
		{"esc cancels", tea.KeyMsg{Type: tea.KeyEsc}, false, true, true},
		{"ctrl+c cancels", tea.KeyMsg{Type: tea.KeyCtrlC}, false, true, true},
		{"other key ignored", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConfirmModel(declaration.Record{ApplicantName: "Ram"})
			next, cmd := m.Update(tt.key)
			got := next.(ConfirmModel)

			if got.Confirmed != tt.wantConfirmed {
				t.Errorf("Confirmed = %v, want %v", got.Confirmed, tt.wantConfirmed)
			}
			if got.Cancelled != tt.wantCancelled {
				t.Errorf("Cancelled = %v, want %v", got.Cancelled, tt.wantCancelled)
			}
			if (cmd != nil) != tt.wantQuit {
				t.Errorf("quit cmd = %v, want %v", cmd != nil, tt.wantQuit)
			}
		})
	}
}

func TestConfirmModelView(t *testing.T) {
	rec := declaration.Record{ApplicantName: "Ram Kumar", Place: "Lucknow"}
	view := NewConfirmModel(rec).View()

	for _, want := range []string{
		pkgio.FileName("Ram Kumar"),
		"Ram Kumar",
		"Lucknow",
		declaration.FieldFatherName.Label(),
		"6 field(s) empty",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestConfirmModelViewComplete(t *testing.T) {
	rec := declaration.Record{
		ApplicantName: "Ram Kumar", FatherName: "Shyam Lal", Age: "34", Year: "2025",
		Occupation: "Farmer", Address: "Rampur", Place: "Lucknow", Date: "2025-03-09",
	}
	if view := NewConfirmModel(rec).View(); strings.Contains(view, "empty") {
		t.Errorf("complete record should not warn:\n%s", view)
	}
}

func TestConfirmExport(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"confirm", "y", true},
		{"cancel", "q", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := confirmExport(context.Background(), declaration.Record{}, strings.NewReader(tt.input), &out)
			if err != nil {
				t.Fatalf("confirmExport: %v", err)
			}
			if got != tt.want {
				t.Errorf("confirmExport() = %v, want %v", got, tt.want)
			}
		})
	}
}
