package activity

import (
	"bytes"
	"sort"

	"activityScope/internal/model"
)

// DefaultLimit is the display window size used when none is given.
const DefaultLimit = 10

// Merge concatenates the per-kind lists and orders the result most recent
// first: block number descending, then log index descending. Inputs need not
// be sorted. Events sharing a (tx hash, log index) key appear once.
func Merge(lists ...[]model.Event) []model.Event {
	total := 0
	for _, list := range lists {
		total += len(list)
	}

	out := make([]model.Event, 0, total)
	seen := make(map[model.EventKey]struct{}, total)
	for _, list := range lists {
		for _, ev := range list {
			if ev == nil {
				continue
			}
			key := ev.Metadata().Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, ev)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return Before(out[i], out[j])
	})
	return out
}

// Before reports whether a sorts ahead of b in the activity order.
func Before(a, b model.Event) bool {
	am, bm := a.Metadata(), b.Metadata()
	if am.BlockNumber != bm.BlockNumber {
		return am.BlockNumber > bm.BlockNumber
	}
	if am.LogIndex != bm.LogIndex {
		return am.LogIndex > bm.LogIndex
	}
	return bytes.Compare(am.TxHash[:], bm.TxHash[:]) > 0
}

// Window is the displayed head of an activity sequence.
type Window struct {
	Events    []model.Event
	Total     int
	Remaining int
}

// Truncated reports whether events were left out of the window.
func (w Window) Truncated() bool {
	return w.Remaining > 0
}

// NewWindow takes the first limit events of seq. A non-positive limit uses
// DefaultLimit.
func NewWindow(seq []model.Event, limit int) Window {
	if limit <= 0 {
		limit = DefaultLimit
	}
	n := len(seq)
	if n <= limit {
		return Window{Events: seq, Total: n}
	}
	return Window{Events: seq[:limit:limit], Total: n, Remaining: n - limit}
}
