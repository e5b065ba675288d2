package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/weekplan/internal/schedule"
	"github.com/hy4ri/weekplan/internal/tui/state"
	"github.com/hy4ri/weekplan/internal/tui/styles"
)

// segment is a styled run of cells on one grid line, relative to the day
// column.
type segment struct {
	x, w  int
	text  string
	style lipgloss.Style
}

// block is a rectangle drawn in a day column.
type block struct {
	occ     schedule.Occurrence
	x, w    int
	top, h  int // screen rows
	style   lipgloss.Style
	handle  lipgloss.Style // bottom row of a resizable block
	preview bool
}

func (b block) isHandle(l int) bool {
	return !b.preview && b.h > 1 && l == b.h-1
}

// cornerHandle reports whether b is one row tall and carries its resize
// handle in the last cell.
func (b block) cornerHandle() bool {
	return !b.preview && b.h == 1 && b.w > 1
}

// lineText returns the text of row l of b.
func (b block) lineText(l int) string {
	o := b.occ
	switch {
	case b.preview && l == 0:
		return " " + o.Time.String() + " " + o.Title
	case l == 0:
		mark := " "
		if o.Recurrence.Repeats() {
			mark = "↻"
		}
		return mark + o.Title
	case b.isHandle(l):
		return repeat("╌", b.w)
	case l == 1 && b.h > 2 && o.Time != nil:
		end := schedule.EndTime(*o.Time, o.Duration)
		return fmt.Sprintf(" %s - %s", o.Time, end)
	}
	return ""
}

// dayBlocks collects the blocks of day i, drop preview last.
func (r *Renderer) dayBlocks(g state.Geometry, i int) []block {
	gesture := r.Machine.Gesture()
	col := g.Days[i]
	var out []block

	for _, s := range r.Board.Timed[i] {
		rect := g.BlockRect(i, s)
		b := block{
			occ: s.Occurrence,
			x:   rect.X - col.X,
			w:   rect.W,
			top: rect.Y,
			h:   rect.H,
		}
		b.style = r.blockStyle(s.Occurrence)
		b.handle = styles.ResizeHandle.Background(styles.PriorityColor(s.Occurrence.Priority))
		if gesture.State != schedule.Idle && gesture.Key == s.Occurrence.Key {
			switch gesture.State {
			case schedule.Dragging:
				b.style = styles.BlockGhost
				b.handle = b.style
			case schedule.Resizing:
				b.h = max(1, int(math.Round(gesture.PreviewHeight)))
				b.style = styles.BlockPreview
				b.handle = b.style
			}
		}
		out = append(out, b)
	}

	if p, ok := r.dropPreview(g, i); ok {
		out = append(out, p)
	}
	return out
}

// dropPreview is the block a drop at the hovered grid position would write.
func (r *Renderer) dropPreview(g state.Geometry, i int) (block, bool) {
	d := r.Machine.Drag()
	if d == nil || i >= len(r.Board.Days) {
		return block{}, false
	}
	gesture := r.Machine.Gesture()
	if gesture.Hover.Kind != schedule.TimeGrid || gesture.Hover.Date != r.Board.Days[i] {
		return block{}, false
	}
	at, ok := d.PreviewTime()
	if !ok {
		return block{}, false
	}
	src, ok := r.Board.Find(gesture.Key)
	if !ok {
		return block{}, false
	}
	src.Time = &at
	return block{
		occ:     src,
		x:       0,
		w:       g.Days[i].W,
		top:     g.ScreenRow(state.BlockTop(g.Axis, at)),
		h:       state.BlockHeight(g.Axis, src.Duration),
		style:   styles.BlockPreview,
		preview: true,
	}, true
}

func (r *Renderer) blockStyle(o schedule.Occurrence) lipgloss.Style {
	bg := styles.PriorityColor(o.Priority)
	switch {
	case r.Selected != nil && *r.Selected == o.Key:
		return styles.BlockSelected.Background(bg)
	case o.IsVirtual():
		return styles.BlockVirtual.Background(bg)
	}
	return styles.Block.Background(bg)
}

// renderGridLine draws screen row y of day i.
func (r *Renderer) renderGridLine(g state.Geometry, i, y int, blocks []block) string {
	width := g.Days[i].W
	var segs []segment
	for _, b := range blocks {
		if y < b.top || y >= b.top+b.h {
			continue
		}
		l := y - b.top
		style := b.style
		if b.isHandle(l) {
			style = b.handle
		}
		if b.cornerHandle() {
			segs = append(segs,
				segment{x: b.x, w: b.w - 1, text: b.lineText(l), style: style},
				segment{x: b.x + b.w - 1, w: 1, text: "╌", style: b.handle})
			continue
		}
		segs = append(segs, segment{x: b.x, w: b.w, text: b.lineText(l), style: style})
	}

	empty := r.emptyCell(g, i, y)
	return paint(width, segs, empty)
}

// emptyCell returns the filler for grid cells without a block.
func (r *Renderer) emptyCell(g state.Geometry, i, y int) segment {
	offset := int(g.GridY(y))
	rph := max(1, int(g.Axis.PixelsPerHour))

	if r.Week.IsToday(r.Board.Days[i]) {
		now := r.Clock.Now()
		nowRow := int(state.BlockTop(g.Axis, schedule.NewTimeOfDay(now.Hour(), now.Minute())))
		if offset == nowRow {
			return segment{text: "─", style: styles.NowLine}
		}
	}
	if offset%rph == 0 {
		return segment{text: "┈", style: styles.HourLine}
	}
	return segment{text: " ", style: lipgloss.NewStyle()}
}

// paint lays segments over a line of filler. Later segments win where
// they overlap; a partly covered segment keeps only its style.
func paint(width int, segs []segment, filler segment) string {
	owner := make([]int, width)
	for c := range owner {
		owner[c] = -1
	}
	for si, s := range segs {
		for c := max(0, s.x); c < min(width, s.x+s.w); c++ {
			owner[c] = si
		}
	}

	var b strings.Builder
	for c := 0; c < width; {
		o := owner[c]
		end := c
		for end < width && owner[end] == o {
			end++
		}
		run := end - c
		switch {
		case o < 0:
			b.WriteString(filler.style.Render(repeat(filler.text, run)))
		case c == segs[o].x && run == segs[o].w:
			b.WriteString(segs[o].style.Render(fit(segs[o].text, run)))
		default:
			b.WriteString(segs[o].style.Render(strings.Repeat(" ", run)))
		}
		c = end
	}
	return b.String()
}

// renderAllDayLine draws lane row j of day i.
func (r *Renderer) renderAllDayLine(g state.Geometry, i, j int) string {
	width := g.Days[i].W
	occs := r.Board.AllDay[i]
	visible := state.AllDayVisible(len(occs), g.AllDay.H)

	filler := segment{text: " ", style: lipgloss.NewStyle()}
	gesture := r.Machine.Gesture()
	if gesture.State == schedule.Dragging && gesture.Hover.Kind == schedule.AllDayLane &&
		gesture.Hover.Date == r.Board.Days[i] {
		filler.style = styles.AllDayDropTarget
	}

	switch {
	case j < visible:
		o := occs[j]
		style := r.blockStyle(o)
		if gesture.State == schedule.Dragging && gesture.Key == o.Key {
			style = styles.BlockGhost
		}
		mark := " "
		if o.Recurrence.Repeats() {
			mark = "↻"
		}
		return paint(width, []segment{{x: 0, w: width, text: mark + o.Title, style: style}}, filler)
	case j == g.AllDay.H-1 && len(occs) > visible:
		more := fmt.Sprintf(" +%d more", len(occs)-visible)
		return paint(width, []segment{{x: 0, w: width, text: more, style: styles.MoreItems}}, filler)
	}
	return paint(width, nil, filler)
}

// renderDayColumn draws day i from the header row to the bottom of the grid.
func (r *Renderer) renderDayColumn(g state.Geometry, i int) string {
	width := g.Days[i].W
	sep := styles.Separator.Render("│")
	lines := make([]string, 0, g.Days[i].H)

	day := r.Board.Days[i]
	header := day.Time().Format("Mon 2")
	hs := styles.DayHeader
	if r.Week.IsToday(day) {
		hs = styles.DayHeaderToday
	}
	lines = append(lines, sep+hs.Render(lipgloss.PlaceHorizontal(width, lipgloss.Center, truncateString(header, width))))

	for j := 0; j < g.AllDay.H; j++ {
		lines = append(lines, sep+r.renderAllDayLine(g, i, j))
	}
	lines = append(lines, styles.Separator.Render("┼"+repeat("─", width)))

	blocks := r.dayBlocks(g, i)
	for y := g.Grid.Y; y < g.Grid.Y+g.Grid.H; y++ {
		lines = append(lines, sep+r.renderGridLine(g, i, y, blocks))
	}
	return strings.Join(lines, "\n")
}

// renderGutter draws the hour labels.
func (r *Renderer) renderGutter(g state.Geometry) string {
	w := g.Gutter.W
	lines := make([]string, 0, g.Days[0].H)
	lines = append(lines, repeat(" ", w))
	for j := 0; j < g.AllDay.H; j++ {
		label := ""
		if j == 0 {
			label = "all"
		}
		lines = append(lines, styles.Gutter.Render(fit(label, w)))
	}
	lines = append(lines, styles.Separator.Render(repeat("─", w)))

	rph := max(1, int(g.Axis.PixelsPerHour))
	for y := g.Grid.Y; y < g.Grid.Y+g.Grid.H; y++ {
		offset := int(g.GridY(y))
		label := ""
		if offset%rph == 0 {
			label = fmt.Sprintf("%02d:00", offset/rph)
		}
		lines = append(lines, styles.Gutter.Render(fit(label, w)))
	}
	return strings.Join(lines, "\n")
}
