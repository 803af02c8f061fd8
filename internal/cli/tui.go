package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ghoshnapatra/ghoshna/pkg/declaration"
	pkgio "github.com/ghoshnapatra/ghoshna/pkg/io"
)

var (
	confirmKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	confirmHintStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ConfirmModel - Interactive export confirmation
// =============================================================================

// ConfirmModel previews a record and waits for the user to start or cancel
// the export. It is the only point at which an export can be cancelled.
type ConfirmModel struct {
	Record    declaration.Record
	Missing   []declaration.Field
	Confirmed bool
	Cancelled bool
}

// NewConfirmModel creates a confirmation model for rec.
func NewConfirmModel(rec declaration.Record) ConfirmModel {
	return ConfirmModel{Record: rec, Missing: rec.Missing()}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "y":
			m.Confirmed = true
			return m, tea.Quit
		case "q", "n", "esc", "ctrl+c":
			m.Cancelled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("स्वप्रमाणित घोषणा-पत्र"))
	b.WriteString("\n")
	b.WriteString(confirmHintStyle.Render(pkgio.FileName(m.Record.ApplicantName)))
	b.WriteString("\n\n")
	b.WriteString(recordTable(m.Record))
	b.WriteString("\n")

	if len(m.Missing) > 0 {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("%s %d field(s) empty, they will print as dotted lines",
			iconWarning, len(m.Missing))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(confirmKeyStyle.Render("⏎"))
	b.WriteString(confirmHintStyle.Render(" export  "))
	b.WriteString(confirmKeyStyle.Render("q"))
	b.WriteString(confirmHintStyle.Render(" cancel"))
	b.WriteString("\n")

	return b.String()
}

// confirmExport runs the confirmation screen and reports whether the user
// chose to export.
func confirmExport(ctx context.Context, rec declaration.Record, in io.Reader, out io.Writer) (bool, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(out)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	final, err := tea.NewProgram(NewConfirmModel(rec), opts...).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ConfirmModel)
	return ok && m.Confirmed, nil
}
