package schedule

import "sort"

// Slot is the horizontal placement of one timed occurrence within its day.
// Left and Width are percentages of the day column.
type Slot struct {
	Occurrence Occurrence
	Column     int
	Columns    int
	Left       float64
	Width      float64
}

// LayoutDay assigns columns to the timed occurrences of one day so that no
// two overlapping occurrences share a column. Untimed occurrences are
// ignored. The result is ordered by start time, ties in input order.
func LayoutDay(occs []Occurrence) []Slot {
	timed := make([]Occurrence, 0, len(occs))
	for _, o := range occs {
		if o.Placement() == Timed {
			timed = append(timed, o)
		}
	}
	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].Start() < timed[j].Start()
	})

	slots := make([]Slot, 0, len(timed))
	for _, cluster := range clusters(timed) {
		slots = append(slots, packCluster(cluster)...)
	}
	return slots
}

// clusters splits start-sorted occurrences into maximal chains of overlap.
func clusters(sorted []Occurrence) [][]Occurrence {
	var out [][]Occurrence
	var cur []Occurrence
	clusterEnd := 0
	for _, o := range sorted {
		if len(cur) > 0 && o.Start() >= clusterEnd {
			out = append(out, cur)
			cur = nil
		}
		if len(cur) == 0 {
			clusterEnd = o.End()
		}
		cur = append(cur, o)
		clusterEnd = max(clusterEnd, o.End())
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// packCluster places each occurrence in the leftmost column whose last
// occupant has ended by the occurrence's start.
func packCluster(cluster []Occurrence) []Slot {
	var columnEnds []int
	columnOf := make([]int, len(cluster))
	for i, o := range cluster {
		placed := false
		for c, end := range columnEnds {
			if end <= o.Start() {
				columnOf[i] = c
				columnEnds[c] = o.End()
				placed = true
				break
			}
		}
		if !placed {
			columnOf[i] = len(columnEnds)
			columnEnds = append(columnEnds, o.End())
		}
	}

	n := len(columnEnds)
	width := 100 / float64(n)
	slots := make([]Slot, len(cluster))
	for i, o := range cluster {
		slots[i] = Slot{
			Occurrence: o,
			Column:     columnOf[i],
			Columns:    n,
			Left:       float64(columnOf[i]) * width,
			Width:      width,
		}
	}
	return slots
}
