package genji

import (
	"fmt"
	"os"
)

// debugLog prints timing and draw-call stats to stderr.
func (r *Renderer) debugLog(stats FrameStats) {
	if !r.debug {
		return
	}
	total := stats.ResolveTime + stats.SortTime + stats.SubmitTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[genji] resolve: %v | sort: %v | submit: %v | total: %v\n",
		stats.ResolveTime, stats.SortTime, stats.SubmitTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[genji] entries: %d | hidden: %d | draw calls: %d | skipped: %d | failed: %d\n",
		stats.Collected, stats.Hidden, stats.Drawn, stats.Skipped, stats.Failed)
	_, _ = fmt.Fprintf(os.Stderr,
		"[genji] rect: %d | circle: %d | triangle: %d | text: %d | texture: %d\n",
		stats.ByKind[KindRect], stats.ByKind[KindCircle], stats.ByKind[KindTriangle],
		stats.ByKind[KindText], stats.ByKind[KindTexture])
	debugCheckEntryCount(stats.Collected)
}

// debugMaxEntries is the per-frame entry count past which the full re-query
// of the world starts to dominate the frame.
const debugMaxEntries = 10000

func debugCheckEntryCount(n int) {
	if n > debugMaxEntries {
		_, _ = fmt.Fprintf(os.Stderr, "[genji] warning: %d draw entries this frame (threshold %d)\n",
			n, debugMaxEntries)
	}
}

// countKinds tallies entries per shape kind.
func countKinds(entries []DrawEntry) [len(kindNames)]int {
	var counts [len(kindNames)]int
	for i := range entries {
		if k := entries[i].Shape.Kind(); int(k) < len(counts) {
			counts[k]++
		}
	}
	return counts
}
