package state

import (
	"math"

	"github.com/hy4ri/weekplan/internal/schedule"
)

// Screen layout constants, in cells.
const (
	PoolWidth   = 28 // including the border
	GutterWidth = 6
	HeaderRows  = 2 // week title, day headers
	FooterRows  = 2 // status line, key hints
	minDayWidth = 8
)

// Rect is a screen rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Geometry places the board on screen. Grid rows are axis pixels: one row
// per 60/rows_per_hour minutes, scrolled by Scroll rows.
type Geometry struct {
	Width, Height int

	Pool   Rect   // empty when the pool is hidden
	Gutter Rect   // hour labels beside the grid
	Days   []Rect // content area of each day column, separator excluded
	AllDay Rect   // all-day lanes across every day
	Grid   Rect   // timed rows across every day
	Scroll int
	Axis   schedule.Axis
}

// NewGeometry lays out a screen of width x height cells.
func NewGeometry(width, height int, showPool bool, allDayRows, days, scroll int, axis schedule.Axis) Geometry {
	g := Geometry{Width: width, Height: height, Axis: axis}
	if days <= 0 {
		return g
	}

	body := max(0, height-FooterRows-1)
	poolW := 0
	if showPool && width >= PoolWidth+GutterWidth+days*minDayWidth {
		poolW = PoolWidth
		g.Pool = Rect{X: 0, Y: 1, W: poolW, H: body}
	}

	left := poolW + GutterWidth
	colW := max(2, (width-left)/days)
	g.Days = make([]Rect, days)
	for i := range g.Days {
		g.Days[i] = Rect{X: left + i*colW + 1, Y: 1, W: colW - 1, H: body}
	}

	gridTop := HeaderRows + allDayRows + 1
	g.AllDay = Rect{X: left, Y: HeaderRows, W: days * colW, H: allDayRows}
	g.Grid = Rect{X: left, Y: gridTop, W: days * colW, H: max(0, height-FooterRows-gridTop)}
	g.Gutter = Rect{X: poolW, Y: gridTop, W: GutterWidth, H: g.Grid.H}
	g.Scroll = g.ClampScroll(scroll)
	return g
}

// MaxScroll is the largest useful scroll offset.
func (g Geometry) MaxScroll() int {
	return max(0, int(math.Ceil(g.Axis.DayHeight()))-g.Grid.H)
}

// ClampScroll bounds a scroll offset to the grid.
func (g Geometry) ClampScroll(s int) int {
	return min(g.MaxScroll(), max(0, s))
}

// DayAt returns the day column under x, separator included.
func (g Geometry) DayAt(x int) (int, bool) {
	for i, d := range g.Days {
		if x >= d.X-1 && x < d.X+d.W {
			return i, true
		}
	}
	return 0, false
}

// GridY converts a screen row to an axis offset.
func (g Geometry) GridY(y int) float64 {
	return float64(y - g.Grid.Y + g.Scroll)
}

// ScreenRow converts an axis offset to a screen row.
func (g Geometry) ScreenRow(offset float64) int {
	return g.Grid.Y + int(math.Floor(offset+1e-9)) - g.Scroll
}

// BlockHeight returns the rows a block of duration minutes occupies.
func BlockHeight(axis schedule.Axis, duration int) int {
	return max(1, int(math.Round(axis.MinutesToPixels(duration))))
}

// BlockTop returns the axis offset of a timed occurrence's first row.
func BlockTop(axis schedule.Axis, t schedule.TimeOfDay) float64 {
	return math.Floor(axis.ToOffset(t) + 1e-9)
}

// BlockRect returns the screen rectangle of a timed slot. The rectangle may
// extend outside the visible grid.
func (g Geometry) BlockRect(day int, s schedule.Slot) Rect {
	o := s.Occurrence
	if day < 0 || day >= len(g.Days) || o.Time == nil {
		return Rect{}
	}
	col := g.Days[day]
	x := col.X + int(s.Left/100*float64(col.W))
	w := max(1, int(s.Width/100*float64(col.W)))
	if x+w > col.X+col.W {
		w = col.X + col.W - x
	}
	return Rect{
		X: x,
		Y: g.ScreenRow(BlockTop(g.Axis, *o.Time)),
		W: w,
		H: BlockHeight(g.Axis, o.Duration),
	}
}

// AllDayVisible returns how many of n all-day occurrences fit in the lane.
// When they do not all fit the last row shows a "+N more" marker.
func AllDayVisible(n, rows int) int {
	if n <= rows {
		return n
	}
	return max(0, rows-1)
}

// PoolRow is one line of the pool pane: a project header or an entry.
type PoolRow struct {
	ProjectID  string
	Header     string
	Occurrence *schedule.Occurrence
}

// PoolRows flattens the board's pool into display lines.
func PoolRows(b schedule.Board, projectName func(id string) string) []PoolRow {
	var rows []PoolRow
	for _, g := range b.Pool {
		name := g.ProjectID
		if projectName != nil {
			name = projectName(g.ProjectID)
		}
		rows = append(rows, PoolRow{ProjectID: g.ProjectID, Header: name})
		for i := range g.Occurrences {
			rows = append(rows, PoolRow{ProjectID: g.ProjectID, Occurrence: &g.Occurrences[i]})
		}
	}
	return rows
}

// HitKind is what a pointer press landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitPool
	HitAllDay
	HitBlock
)

// Hit describes the occurrence under the pointer.
type Hit struct {
	Kind       HitKind
	Occurrence schedule.Occurrence
	Day        int
	// RectTop is the block's first row as an axis offset, HitBlock only.
	RectTop float64
	// OnHandle is set when the press is on a block's bottom row. A one-row
	// block keeps its handle in its rightmost cell.
	OnHandle bool
}

// HitTest finds the occurrence at (x, y).
func (g Geometry) HitTest(b schedule.Board, pool []PoolRow, x, y int) Hit {
	if !g.Pool.Empty() && g.Pool.Contains(x, y) {
		row := y - g.Pool.Y - 1
		if row >= 0 && row < len(pool) && row < g.Pool.H-1 && pool[row].Occurrence != nil {
			return Hit{Kind: HitPool, Occurrence: *pool[row].Occurrence}
		}
		return Hit{}
	}

	day, ok := g.DayAt(x)
	if !ok || x < g.Days[day].X || day >= len(b.Days) {
		return Hit{}
	}

	if g.AllDay.Contains(x, y) {
		idx := y - g.AllDay.Y
		occs := b.AllDay[day]
		if idx < AllDayVisible(len(occs), g.AllDay.H) {
			return Hit{Kind: HitAllDay, Occurrence: occs[idx], Day: day}
		}
		return Hit{}
	}

	if g.Grid.Contains(x, y) {
		slots := b.Timed[day]
		for i := len(slots) - 1; i >= 0; i-- {
			r := g.BlockRect(day, slots[i])
			if !r.Contains(x, y) {
				continue
			}
			return Hit{
				Kind:       HitBlock,
				Occurrence: slots[i].Occurrence,
				Day:        day,
				RectTop:    BlockTop(g.Axis, *slots[i].Occurrence.Time),
				OnHandle:   onHandle(r, x, y),
			}
		}
	}
	return Hit{}
}

func onHandle(r Rect, x, y int) bool {
	if y != r.Y+r.H-1 {
		return false
	}
	return r.H > 1 || (r.W > 1 && x == r.X+r.W-1)
}

// TargetAt maps a pointer position to a drop target.
func (g Geometry) TargetAt(days []schedule.Date, x, y int) schedule.Target {
	if !g.Pool.Empty() && g.Pool.Contains(x, y) {
		return schedule.PoolTarget()
	}
	day, ok := g.DayAt(x)
	if !ok || day >= len(days) {
		return schedule.Target{}
	}
	switch {
	case g.AllDay.Contains(x, y):
		return schedule.AllDayTarget(days[day])
	case g.Grid.Contains(x, y):
		return schedule.GridTarget(days[day], g.GridY(y))
	}
	return schedule.Target{}
}
