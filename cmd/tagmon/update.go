package main

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joshuapare/memtag/cmd/tagmon/logger"
)

// tickMsg drives one workload batch and a fresh table snapshot.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(defaultTickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// If help is showing, any of these close it
		if m.showHelp {
			if key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
				m.showHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			logger.Info("quitting", "ticks", m.ticks, "allocs", m.wl.allocs, "frees", m.wl.frees)
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil

		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			logger.Debug("pause toggled", "paused", m.paused)
			return m, nil

		case key.Matches(msg, m.keys.Step):
			if m.paused {
				m.stepOnce()
			}
			return m, nil

		case key.Matches(msg, m.keys.Faster):
			if m.opsPerTick < maxOpsPerTick {
				m.opsPerTick *= 2
			}
			return m, nil

		case key.Matches(msg, m.keys.Slower):
			if m.opsPerTick > 1 {
				m.opsPerTick /= 2
			}
			return m, nil

		case key.Matches(msg, m.keys.Reset):
			m.resetWorkload()
			return m, nil
		}
		return m, nil

	case tickMsg:
		if !m.paused {
			m.stepOnce()
		}
		return m, tickCmd()
	}

	return m, nil
}

// stepOnce runs one workload batch and refreshes the snapshot.
func (m *Model) stepOnce() {
	m.wl.step(m.opsPerTick)
	m.ticks++

	snap, err := m.tr.Snapshot()
	if err != nil {
		m.err = err
		logger.Error("snapshot failed", "error", err)
		return
	}
	m.snap = snap
}

// resetWorkload frees every live allocation, letting the table shrink back
// toward its floor, then reseeds the random stream.
func (m *Model) resetWorkload() {
	for _, ref := range m.wl.live {
		if err := m.tr.Free(ref); err != nil {
			m.err = err
			return
		}
	}
	m.wl = newWorkload(m.tr, m.seed, defaultAllocMax)

	snap, err := m.tr.Snapshot()
	if err != nil {
		m.err = err
		return
	}
	m.snap = snap
	logger.Info("workload reset", "seed", m.seed)
}
