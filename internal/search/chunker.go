package search

// chunkBounds returns the [start, end) index pairs that partition total
// items into contiguous chunks. The chunk size is total/workers clamped
// to [minSize, maxSize], so tiny corpora are not shredded into
// per-document tasks and huge ones are not handed out as a few giant
// ones.
func chunkBounds(total, workers, minSize, maxSize int) [][2]int {
	if total <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if minSize < 1 {
		minSize = 1
	}
	if maxSize < minSize {
		maxSize = minSize
	}

	size := total / workers
	if size < minSize {
		size = minSize
	}
	if size > maxSize {
		size = maxSize
	}

	bounds := make([][2]int, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		bounds = append(bounds, [2]int{start, end})
	}
	return bounds
}
