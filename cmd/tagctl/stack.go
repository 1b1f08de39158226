package main

import (
	"fmt"

	"github.com/joshuapare/memtag/internal/arena"
	"github.com/joshuapare/memtag/track"
)

// newStack builds an arena-backed tracker for workload commands.
// The caller must Close the arena when done.
func newStack(arenaSize int, cfg track.Config) (*track.Tracker, *arena.Arena, error) {
	a, err := arena.New(arenaSize)
	if err != nil {
		return nil, nil, fmt.Errorf("create arena: %w", err)
	}
	tr, err := track.New(a, &cfg)
	if err != nil {
		_ = a.Close()
		return nil, nil, fmt.Errorf("create tracker: %w", err)
	}
	tr.Init()
	return tr, a, nil
}

// workloadTags is the tag palette synthetic workloads draw from,
// one per pretend subsystem.
var workloadTags = []track.Tag{
	track.MakeTag("net "),
	track.MakeTag("fs  "),
	track.MakeTag("ui  "),
	track.MakeTag("snd "),
	track.MakeTag("misc"),
}
