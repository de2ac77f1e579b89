package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"pixeldue/internal/engine"
)

func RunBoard(ctx context.Context, sess *engine.Session, out io.Writer) error {
	sess.Watch()
	m := newBoardModel(ctx, sess)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
