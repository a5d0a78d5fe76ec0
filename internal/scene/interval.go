// Package scene defines scene intervals over a video's frame range and
// the relevance scoring used to rank them against a query.
package scene

import (
	"fmt"
	"sort"
	"time"

	"github.com/kikiluvv/sceneseek/pkg/util"
)

// Interval is a contiguous frame range, inclusive on both ends.
type Interval struct {
	Start int
	End   int
}

// Frames returns the number of frame indices the interval spans.
func (iv Interval) Frames() int {
	return iv.End - iv.Start + 1
}

// Contains reports whether the frame index falls inside the interval.
func (iv Interval) Contains(n int) bool {
	return n >= iv.Start && n <= iv.End
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d..%d]", iv.Start, iv.End)
}

// IntervalsFromBoundaries converts scene-change timestamps into a list of
// intervals that covers [0, frameCount-1] with no gaps or overlaps.
// Boundary timestamps mark the first frame of a new scene. A video with no
// boundaries yields a single interval spanning the whole range.
func IntervalsFromBoundaries(boundaries []time.Duration, fps float64, frameCount int) []Interval {
	if frameCount <= 0 {
		return nil
	}
	last := frameCount - 1

	cuts := make([]int, 0, len(boundaries))
	for _, b := range boundaries {
		frame := util.DurationToFrame(b, fps)
		// A cut at frame 0 or past the end splits nothing.
		if frame > 0 && frame <= last {
			cuts = append(cuts, frame)
		}
	}
	sort.Ints(cuts)

	intervals := make([]Interval, 0, len(cuts)+1)
	start := 0
	for _, cut := range cuts {
		if cut == start {
			continue // duplicate boundary
		}
		intervals = append(intervals, Interval{Start: start, End: cut - 1})
		start = cut
	}
	intervals = append(intervals, Interval{Start: start, End: last})

	return intervals
}
