package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hy4ri/weekplan/internal/schedule"
)

func TestNewGeometry(t *testing.T) {
	g := NewGeometry(120, 40, true, 2, 5, 32, schedule.NewAxis(4))

	assert.Equal(t, Rect{X: 0, Y: 1, W: PoolWidth, H: 37}, g.Pool)
	require.Len(t, g.Days, 5)
	assert.Equal(t, Rect{X: 35, Y: 1, W: 16, H: 37}, g.Days[0])
	assert.Equal(t, Rect{X: 103, Y: 1, W: 16, H: 37}, g.Days[4])
	assert.Equal(t, Rect{X: 34, Y: 2, W: 85, H: 2}, g.AllDay)
	assert.Equal(t, Rect{X: 34, Y: 5, W: 85, H: 33}, g.Grid)
	assert.Equal(t, Rect{X: 28, Y: 5, W: GutterWidth, H: 33}, g.Gutter)
	assert.Equal(t, 32, g.Scroll)
	assert.Equal(t, 63, g.MaxScroll())
}

func TestNewGeometryWithoutPool(t *testing.T) {
	hidden := NewGeometry(120, 40, false, 2, 5, 0, schedule.NewAxis(4))
	assert.True(t, hidden.Pool.Empty())
	assert.Equal(t, GutterWidth+1, hidden.Days[0].X)

	narrow := NewGeometry(70, 40, true, 2, 5, 0, schedule.NewAxis(4))
	assert.True(t, narrow.Pool.Empty(), "the pool gives way on narrow terminals")

	none := NewGeometry(120, 40, true, 2, 0, 0, schedule.NewAxis(4))
	assert.Empty(t, none.Days)
}

func TestScrollClamp(t *testing.T) {
	g := NewGeometry(120, 40, true, 2, 5, 500, schedule.NewAxis(4))
	assert.Equal(t, g.MaxScroll(), g.Scroll)
	assert.Equal(t, 0, g.ClampScroll(-3))

	tall := NewGeometry(120, 200, true, 2, 5, 40, schedule.NewAxis(4))
	assert.Equal(t, 0, tall.Scroll, "a grid taller than the day never scrolls")
}

func TestGridCoordinates(t *testing.T) {
	g := NewGeometry(120, 40, true, 2, 5, 32, schedule.NewAxis(4))

	assert.Equal(t, 32.0, g.GridY(5))
	assert.Equal(t, 5, g.ScreenRow(32))
	assert.Equal(t, 9, g.ScreenRow(BlockTop(g.Axis, schedule.NewTimeOfDay(9, 0))))
	assert.Equal(t, 9, g.ScreenRow(BlockTop(g.Axis, schedule.NewTimeOfDay(9, 10))), "rows floor to their slot")

	assert.Equal(t, 4, BlockHeight(g.Axis, 60))
	assert.Equal(t, 1, BlockHeight(g.Axis, 5), "never below one row")
	assert.Equal(t, 2, BlockHeight(g.Axis, 25))

	day, ok := g.DayAt(34)
	assert.True(t, ok, "the separator belongs to the column on its right")
	assert.Equal(t, 0, day)
	day, ok = g.DayAt(52)
	assert.True(t, ok)
	assert.Equal(t, 1, day)
	_, ok = g.DayAt(30)
	assert.False(t, ok)
}

func TestBlockRect(t *testing.T) {
	s, _ := newFixture(t)
	g := s.Geometry()

	slots := s.Board.Timed[0]
	require.Len(t, slots, 2)

	assert.Equal(t, Rect{X: 35, Y: 9, W: 8, H: 4}, g.BlockRect(0, slots[0]))
	assert.Equal(t, Rect{X: 43, Y: 11, W: 8, H: 2}, g.BlockRect(0, slots[1]))
	assert.Equal(t, Rect{}, g.BlockRect(7, slots[0]))
}

func TestAllDayVisible(t *testing.T) {
	assert.Equal(t, 1, AllDayVisible(1, 2))
	assert.Equal(t, 2, AllDayVisible(2, 2))
	assert.Equal(t, 1, AllDayVisible(3, 2), "last row shows +N more")
	assert.Equal(t, 0, AllDayVisible(3, 1))
}

func TestPoolRows(t *testing.T) {
	s, _ := newFixture(t)

	rows := s.PoolRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Inbox", rows[0].Header)
	assert.Nil(t, rows[0].Occurrence)
	require.NotNil(t, rows[1].Occurrence)
	assert.Equal(t, "Groceries", rows[1].Occurrence.Title)

	raw := PoolRows(s.Board, nil)
	assert.Equal(t, "inbox", raw[0].Header)
}

func TestHitTest(t *testing.T) {
	s, _ := newFixture(t)
	g := s.Geometry()
	pool := s.PoolRows()

	tests := []struct {
		name     string
		x, y     int
		kind     HitKind
		id       string
		onHandle bool
	}{
		{"pool header", 5, 2, HitNone, "", false},
		{"pool entry", 5, 3, HitPool, "groceries", false},
		{"pool below entries", 5, 10, HitNone, "", false},
		{"all-day entry", 52, 2, HitAllDay, "holiday", false},
		{"empty all-day row", 52, 3, HitNone, "", false},
		{"block body", 36, 10, HitBlock, "standup", false},
		{"block handle", 36, 12, HitBlock, "standup", true},
		{"overlapping block", 44, 11, HitBlock, "review", false},
		{"overlapping handle", 44, 12, HitBlock, "review", true},
		{"column separator", 34, 10, HitNone, "", false},
		{"empty grid", 60, 20, HitNone, "", false},
		{"title row", 60, 0, HitNone, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := g.HitTest(s.Board, pool, tt.x, tt.y)
			assert.Equal(t, tt.kind, hit.Kind)
			if tt.kind == HitNone {
				return
			}
			assert.Equal(t, tt.id, hit.Occurrence.SourceID())
			assert.Equal(t, tt.onHandle, hit.OnHandle)
		})
	}

	hit := g.HitTest(s.Board, pool, 36, 10)
	assert.Equal(t, 36.0, hit.RectTop)
	assert.Equal(t, 0, hit.Day)
}

func TestTargetAt(t *testing.T) {
	s, _ := newFixture(t)
	g := s.Geometry()
	days := s.Board.Days
	tue := schedule.NewDate(2024, time.January, 9)

	assert.Equal(t, schedule.PoolTarget(), g.TargetAt(days, 5, 10))
	assert.Equal(t, schedule.AllDayTarget(tue), g.TargetAt(days, 52, 2))
	assert.Equal(t, schedule.GridTarget(tue, 36), g.TargetAt(days, 52, 9))
	assert.Equal(t, schedule.Target{}, g.TargetAt(days, 52, 4), "lane separator")
	assert.Equal(t, schedule.Target{}, g.TargetAt(days, 52, 1), "day header")
	assert.Equal(t, schedule.Target{}, g.TargetAt(days, 30, 10), "gutter")
}

func TestOnHandle(t *testing.T) {
	tall := Rect{X: 35, Y: 9, W: 8, H: 4}
	assert.True(t, onHandle(tall, 36, 12))
	assert.False(t, onHandle(tall, 36, 11))

	short := Rect{X: 35, Y: 9, W: 8, H: 1}
	assert.True(t, onHandle(short, 42, 9), "rightmost cell")
	assert.False(t, onHandle(short, 36, 9), "the rest of the row drags")

	sliver := Rect{X: 35, Y: 9, W: 1, H: 1}
	assert.False(t, onHandle(sliver, 35, 9))
}
