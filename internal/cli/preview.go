package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lyfe691/self/internal/render"
)

func newPreviewCmd() *cobra.Command {
	var height int

	cmd := &cobra.Command{
		Use:   "preview <image>",
		Short: "Interactively preview render modes and sizes",
		Long:  "Preview an image in the terminal. Press m to toggle block/braille, +/- to resize, q to quit.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := newPreviewModel(args[0], height)
			_, err := tea.NewProgram(model).Run()
			return err
		},
	}
	cmd.Flags().IntVar(&height, "height", 16, "initial height in terminal rows")
	return cmd
}

// previewModel re-renders through a memory cache, so toggling back and
// forth between settings already seen is instant.
type previewModel struct {
	path     string
	height   int
	mode     render.Mode
	renderer *render.Renderer
	frame    *render.Frame
	err      error
}

func newPreviewModel(path string, height int) *previewModel {
	if height < 1 {
		height = 16
	}
	m := &previewModel{
		path:     path,
		height:   height,
		renderer: render.New(render.WithCache(render.NewMemCache())),
	}
	m.rerender()
	return m
}

func (m *previewModel) rerender() {
	m.frame, m.err = m.renderer.Render(render.Request{
		Path:   m.path,
		Height: m.height,
		Mode:   m.mode,
	})
}

func (m *previewModel) Init() tea.Cmd { return nil }

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "m":
		if m.mode == render.ModeBlock {
			m.mode = render.ModeBraille
		} else {
			m.mode = render.ModeBlock
		}
		m.rerender()
	case "+", "=":
		m.height++
		m.rerender()
	case "-", "_":
		if m.height > 1 {
			m.height--
			m.rerender()
		}
	}
	return m, nil
}

func (m *previewModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("render failed: %v\n\nq to quit\n", m.err)
	}

	var b strings.Builder
	b.WriteString(strings.Join(m.frame.Lines, "\n"))
	b.WriteString("\n\n")
	status := fmt.Sprintf("mode: %s  height: %d", m.mode, m.height)
	if m.frame.Fallback {
		status += fmt.Sprintf("  (placeholder: %v)", m.frame.Reason)
	}
	b.WriteString(status)
	b.WriteString("\nm: toggle mode  +/-: resize  q: quit\n")
	return b.String()
}
