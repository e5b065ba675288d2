package schedule

// PoolGroup is the unscheduled tasks of one project.
type PoolGroup struct {
	ProjectID   string
	Occurrences []Occurrence
}

// BoardOptions controls what the board shows.
type BoardOptions struct {
	// HiddenProjects are left off the day lanes and grid. The pool still
	// lists their tasks.
	HiddenProjects map[string]bool
	// ProjectOrder orders pool groups; projects not listed follow in order
	// of first appearance.
	ProjectOrder []string
}

// Board is everything one render pass needs for the visible week.
type Board struct {
	Days   []Date
	Pool   []PoolGroup
	AllDay [][]Occurrence
	Timed  [][]Slot
}

// BuildBoard derives the board for days from a task snapshot.
func BuildBoard(tasks []Task, days []Date, opts BoardOptions) Board {
	b := Board{
		Days:   days,
		AllDay: make([][]Occurrence, len(days)),
		Timed:  make([][]Slot, len(days)),
	}
	b.Pool = buildPool(tasks, opts.ProjectOrder)

	index := make(map[Date]int, len(days))
	for i, d := range days {
		index[d] = i
	}

	timed := make([][]Occurrence, len(days))
	for _, o := range Expand(tasks, days) {
		if opts.HiddenProjects[o.ProjectID] {
			continue
		}
		i, ok := index[*o.Date]
		if !ok {
			continue
		}
		switch o.Placement() {
		case AllDay:
			b.AllDay[i] = append(b.AllDay[i], o)
		case Timed:
			timed[i] = append(timed[i], o)
		}
	}
	for i := range days {
		b.Timed[i] = LayoutDay(timed[i])
	}
	return b
}

func buildPool(tasks []Task, order []string) []PoolGroup {
	byProject := make(map[string][]Occurrence)
	var seen []string
	for _, t := range tasks {
		if t.Completed || t.Date != nil {
			continue
		}
		if _, ok := byProject[t.ProjectID]; !ok {
			seen = append(seen, t.ProjectID)
		}
		byProject[t.ProjectID] = append(byProject[t.ProjectID], RealOccurrence(t))
	}

	var groups []PoolGroup
	used := make(map[string]bool)
	for _, id := range append(append([]string{}, order...), seen...) {
		occs, ok := byProject[id]
		if !ok || used[id] {
			continue
		}
		used[id] = true
		groups = append(groups, PoolGroup{ProjectID: id, Occurrences: occs})
	}
	return groups
}

// Find returns the occurrence with key k, wherever it is on the board.
func (b Board) Find(k Key) (Occurrence, bool) {
	for _, g := range b.Pool {
		for _, o := range g.Occurrences {
			if o.Key == k {
				return o, true
			}
		}
	}
	for i := range b.Days {
		for _, o := range b.AllDay[i] {
			if o.Key == k {
				return o, true
			}
		}
		for _, s := range b.Timed[i] {
			if s.Occurrence.Key == k {
				return s.Occurrence, true
			}
		}
	}
	return Occurrence{}, false
}

// Occurrences returns every dated occurrence on the board, day by day.
func (b Board) Occurrences() []Occurrence {
	var out []Occurrence
	for i := range b.Days {
		out = append(out, b.AllDay[i]...)
		for _, s := range b.Timed[i] {
			out = append(out, s.Occurrence)
		}
	}
	return out
}
