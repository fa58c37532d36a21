package fetch

import "fmt"

// Range is an inclusive block range. To == 0 means latest.
type Range struct {
	From uint64
	To   uint64
}

// FullHistory is the earliest..latest range.
var FullHistory = Range{}

// SplitRange splits [from, to] into windows of at most batchSize blocks.
func SplitRange(from, to, batchSize uint64) ([]Range, error) {
	if batchSize == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if to < from {
		return nil, fmt.Errorf("to block must be >= from block")
	}

	ranges := make([]Range, 0, (to-from)/batchSize+1)
	for start := from; ; {
		end := to
		if to-start+1 > batchSize {
			end = start + batchSize - 1
		}
		ranges = append(ranges, Range{From: start, To: end})
		if end == to {
			break
		}
		start = end + 1
	}

	return ranges, nil
}

// Windows resolves rng into the query windows to issue. With batchSize 0 the
// range is queried as one window and an open end stays open; otherwise head
// replaces an open end and the range is split.
func Windows(rng Range, head, batchSize uint64) ([]Range, error) {
	if batchSize == 0 {
		if rng.To != 0 && rng.To < rng.From {
			return nil, fmt.Errorf("to block must be >= from block")
		}
		return []Range{rng}, nil
	}

	to := rng.To
	if to == 0 {
		if head < rng.From {
			// start is past the head
			return nil, nil
		}
		to = head
	}
	return SplitRange(rng.From, to, batchSize)
}
