package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run 封装 Bubble Tea 入口；退出时取消所有 playback。
func Run(opts Options) error {
	m := New(opts)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := program.Run()
	m.Close()
	if err != nil {
		return err
	}
	if _, ok := final.(*Model); !ok {
		return errors.New("unexpected tui model")
	}
	return nil
}
