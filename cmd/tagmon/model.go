package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joshuapare/memtag/cmd/tagmon/logger"
	"github.com/joshuapare/memtag/internal/arena"
	"github.com/joshuapare/memtag/track"
)

// Layout constants
const (
	minGridWidth = 16 // Narrowest slot grid before we stop shrinking
)

// Simulation defaults
const (
	defaultTickInterval = 100 * time.Millisecond
	defaultOpsPerTick   = 8
	maxOpsPerTick       = 256
	defaultAllocMax     = 512     // largest synthetic allocation, bytes
	defaultArenaBytes   = 1 << 20 // backing arena size
)

// Model is the main application model
type Model struct {
	tr   *track.Tracker
	ar   *arena.Arena
	wl   *workload
	keys KeyMap

	seed       int64
	opsPerTick int
	paused     bool

	width  int
	height int

	// Help overlay
	showHelp bool

	// Last snapshot taken on tick, so View never touches the tracker.
	snap  track.Snapshot
	ticks int

	err error
}

// NewModel creates a new TUI model driving a synthetic workload.
func NewModel(seed int64) Model {
	m := Model{
		keys:       DefaultKeyMap(),
		seed:       seed,
		opsPerTick: defaultOpsPerTick,
	}

	ar, err := arena.New(defaultArenaBytes)
	if err != nil {
		m.err = err
		return m
	}

	cfg := track.DefaultConfig()
	cfg.MinTableSize = 16
	cfg.InitialTableSize = 16
	cfg.ExpandStep = 16
	cfg.ShrinkStep = 32

	tr, err := track.New(ar, &cfg)
	if err != nil {
		_ = ar.Close()
		m.err = err
		return m
	}
	tr.Init()

	m.ar = ar
	m.tr = tr
	m.wl = newWorkload(tr, seed, defaultAllocMax)
	m.snap, m.err = tr.Snapshot()

	logger.Info("model created", "seed", seed, "arena_bytes", defaultArenaBytes)
	return m
}

// Init starts the tick loop
func (m Model) Init() tea.Cmd {
	if m.err != nil {
		return tea.Quit
	}
	return tickCmd()
}

// Close releases the backing arena.
func (m Model) Close() error {
	if m.ar == nil {
		return nil
	}
	return m.ar.Close()
}
