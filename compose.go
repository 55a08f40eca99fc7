package genji

// DrawEntry pairs a shape with its resolved attributes for one frame.
// Entries are never retained past the frame that built them.
type DrawEntry struct {
	Shape Shape
	Attrs SpriteData

	seq int // input position, the tiebreak among equal depths
}

// Compositor orders draw entries back to front. Its buffers are reused
// across frames, so the slice returned by Compose is only valid until the
// next call.
type Compositor struct {
	out     []DrawEntry
	sortBuf []DrawEntry
}

// Compose drops every entry with depth 0 and sorts the rest by depth,
// highest first. Entries with equal depth keep their input order.
func (c *Compositor) Compose(entries []DrawEntry) []DrawEntry {
	c.out = c.out[:0]
	for i, e := range entries {
		if e.Attrs.Depth == 0 {
			continue
		}
		e.seq = i
		c.out = append(c.out, e)
	}
	c.mergeSort()
	return c.out
}

// entryLessOrEqual returns true if a should draw before or at the same
// position as b. Using <= on seq keeps the sort stable.
func entryLessOrEqual(a, b *DrawEntry) bool {
	if a.Attrs.Depth != b.Attrs.Depth {
		return a.Attrs.Depth > b.Attrs.Depth
	}
	return a.seq <= b.seq
}

// mergeSort sorts c.out in place using c.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches its
// high-water mark.
func (c *Compositor) mergeSort() {
	n := len(c.out)
	if n <= 1 {
		return
	}
	if cap(c.sortBuf) < n {
		c.sortBuf = make([]DrawEntry, n)
	}
	c.sortBuf = c.sortBuf[:n]

	a := c.out
	b := c.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(c.out, c.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []DrawEntry, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if entryLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], src[i:mid])
	copy(dst[k:], src[j:hi])
}
