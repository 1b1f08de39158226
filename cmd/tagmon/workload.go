package main

import (
	"math/rand"

	"github.com/joshuapare/memtag/track"
)

// workload drives a random allocate/free mix against the tracker, one batch
// per UI tick. The alloc bias keeps occupancy drifting so growth, holes, and
// shrink all show up on screen within a few seconds.
type workload struct {
	tr   *track.Tracker
	rng  *rand.Rand
	live []track.Ref

	maxSize int
	tags    []track.Tag

	allocs int
	frees  int
	errs   int
}

func newWorkload(tr *track.Tracker, seed int64, maxSize int) *workload {
	return &workload{
		tr:      tr,
		rng:     rand.New(rand.NewSource(seed)),
		maxSize: maxSize,
		tags: []track.Tag{
			track.MakeTag("net "),
			track.MakeTag("fs  "),
			track.MakeTag("ui  "),
			track.MakeTag("snd "),
			track.MakeTag("misc"),
		},
	}
}

// step performs n random operations. The bias swings over time: mostly
// allocations while the table is thin, mostly frees once it is crowded.
func (w *workload) step(n int) {
	for i := 0; i < n; i++ {
		allocBias := 70 - len(w.live)/2
		if allocBias < 20 {
			allocBias = 20
		}
		if len(w.live) == 0 || w.rng.Intn(100) < allocBias {
			size := 1 + w.rng.Intn(w.maxSize)
			tag := w.tags[w.rng.Intn(len(w.tags))]
			ref, _, err := w.tr.AllocBytes(size, tag)
			if err != nil {
				w.errs++
				continue
			}
			w.live = append(w.live, ref)
			w.allocs++
		} else {
			j := w.rng.Intn(len(w.live))
			ref := w.live[j]
			w.live[j] = w.live[len(w.live)-1]
			w.live = w.live[:len(w.live)-1]
			if err := w.tr.Free(ref); err != nil {
				w.errs++
				continue
			}
			w.frees++
		}
	}
}
