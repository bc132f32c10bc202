package bruteforce

// Range is the half-open index interval [Start, End) scanned by one worker.
type Range struct {
	Start uint64
	End   uint64
}

func (r Range) Len() uint64 {
	return r.End - r.Start
}

// Partition splits [0, total) into exactly workers contiguous ranges of
// ceil(total/workers) indices, the last one clipped to total. When workers
// exceed total the trailing ranges are empty.
func Partition(total uint64, workers int) []Range {
	n := uint64(workers)
	chunk := total / n
	if total%n != 0 {
		chunk++
	}
	ranges := make([]Range, workers)
	for k := range ranges {
		start := total
		if chunk != 0 && uint64(k) <= total/chunk {
			start = uint64(k) * chunk
		}
		end := total
		if total-start > chunk {
			end = start + chunk
		}
		ranges[k] = Range{Start: start, End: end}
	}
	return ranges
}
