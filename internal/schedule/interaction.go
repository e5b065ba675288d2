package schedule

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrGestureActive is returned when a gesture starts while another is live.
	ErrGestureActive = errors.New("another gesture is in progress")
	// ErrNotTimed is returned when resizing an occurrence that has no time.
	ErrNotTimed = errors.New("only timed occurrences can be resized")
)

// State is the interaction state.
type State int

const (
	Idle State = iota
	Dragging
	Resizing
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	}
	return "idle"
}

// TargetKind identifies what lies under the pointer on drop.
type TargetKind int

const (
	NoTarget TargetKind = iota
	PoolArea
	AllDayLane
	TimeGrid
)

// Target is a drop target. The zero Target is "nothing".
type Target struct {
	Kind TargetKind
	Date Date
	Y    float64 // pointer offset within the day column, TimeGrid only
}

// PoolTarget is the unscheduled pool.
func PoolTarget() Target { return Target{Kind: PoolArea} }

// AllDayTarget is the all-day lane of date.
func AllDayTarget(date Date) Target { return Target{Kind: AllDayLane, Date: date} }

// GridTarget is the timed column of date at pointer offset y.
func GridTarget(date Date, y float64) Target { return Target{Kind: TimeGrid, Date: date, Y: y} }

// Op is a store write operation.
type Op int

const (
	OpSetSchedule Op = iota + 1
	OpClearSchedule
	OpSetDuration
)

func (o Op) String() string {
	switch o {
	case OpSetSchedule:
		return "set-schedule"
	case OpClearSchedule:
		return "clear-schedule"
	case OpSetDuration:
		return "set-duration"
	}
	return "none"
}

// Writer is the write half of the task store contract.
type Writer interface {
	SetSchedule(ctx context.Context, taskID string, date Date, t *TimeOfDay, durationMinutes int) error
	ClearSchedule(ctx context.Context, taskID string) error
	SetDuration(ctx context.Context, taskID string, durationMinutes int) error
}

// Write is a committed gesture, ready to be applied to a Writer.
type Write struct {
	Op       Op
	TaskID   string
	Date     Date
	Time     *TimeOfDay
	Duration int
}

// Apply performs the write with a single store call.
func (w Write) Apply(ctx context.Context, wr Writer) error {
	switch w.Op {
	case OpSetSchedule:
		return wr.SetSchedule(ctx, w.TaskID, w.Date, w.Time, w.Duration)
	case OpClearSchedule:
		return wr.ClearSchedule(ctx, w.TaskID)
	case OpSetDuration:
		return wr.SetDuration(ctx, w.TaskID, w.Duration)
	}
	return fmt.Errorf("unknown write op %d", w.Op)
}

func (w Write) String() string {
	switch w.Op {
	case OpSetSchedule:
		if w.Time == nil {
			return fmt.Sprintf("%s %s all-day", w.TaskID, w.Date)
		}
		return fmt.Sprintf("%s %s %s (%dm)", w.TaskID, w.Date, w.Time, w.Duration)
	case OpClearSchedule:
		return w.TaskID + " to pool"
	case OpSetDuration:
		return fmt.Sprintf("%s duration %dm", w.TaskID, w.Duration)
	}
	return w.TaskID
}

// TaskLookup reads a task from the latest store snapshot.
type TaskLookup func(id string) (Task, bool)

// Gesture is the read-only view of the active session used by renderers.
type Gesture struct {
	State         State
	TaskID        string
	Key           Key
	Hover         Target
	PreviewHeight float64
}

// Machine owns at most one drag or resize session.
type Machine struct {
	axis   Axis
	drag   *DragSession
	resize *ResizeSession
}

// NewMachine returns an idle machine using axis for coordinate math.
func NewMachine(axis Axis) *Machine {
	return &Machine{axis: axis}
}

// Axis returns the machine's time axis.
func (m *Machine) Axis() Axis { return m.axis }

// SetAxis replaces the axis. It has no effect on an active session.
func (m *Machine) SetAxis(a Axis) {
	if m.State() == Idle {
		m.axis = a
	}
}

// State returns the current state.
func (m *Machine) State() State {
	switch {
	case m.drag != nil:
		return Dragging
	case m.resize != nil:
		return Resizing
	}
	return Idle
}

// Gesture returns the render context of the active session.
func (m *Machine) Gesture() Gesture {
	switch {
	case m.drag != nil:
		return Gesture{State: Dragging, TaskID: m.drag.taskID, Key: m.drag.key, Hover: m.drag.hover}
	case m.resize != nil:
		return Gesture{State: Resizing, TaskID: m.resize.taskID, Key: m.resize.key, PreviewHeight: m.resize.height}
	}
	return Gesture{State: Idle}
}

// Drag returns the active drag session, if any.
func (m *Machine) Drag() *DragSession { return m.drag }

// Resize returns the active resize session, if any.
func (m *Machine) Resize() *ResizeSession { return m.resize }

// Cancel ends any active session without a write.
func (m *Machine) Cancel() {
	if m.drag != nil {
		m.drag.Cancel()
	}
	if m.resize != nil {
		m.resize.Cancel()
	}
}

// BeginDrag starts dragging occ. pointerY and rectTop are in the same
// coordinate space; their difference is kept as the grab offset. A virtual
// occurrence is resolved to its source task.
func (m *Machine) BeginDrag(occ Occurrence, pointerY, rectTop float64) (*DragSession, error) {
	if m.State() != Idle {
		return nil, ErrGestureActive
	}
	s := &DragSession{
		m:          m,
		key:        occ.Key,
		taskID:     occ.SourceID(),
		grabOffset: pointerY - rectTop,
		duration:   normalizeDuration(occ.Duration),
	}
	m.drag = s
	return s, nil
}

// BeginResize starts resizing a timed occurrence from pointerY. A virtual
// occurrence is resolved to its source task.
func (m *Machine) BeginResize(occ Occurrence, pointerY float64) (*ResizeSession, error) {
	if m.State() != Idle {
		return nil, ErrGestureActive
	}
	if occ.Placement() != Timed {
		return nil, ErrNotTimed
	}
	initial := normalizeDuration(occ.Duration)
	s := &ResizeSession{
		m:             m,
		key:           occ.Key,
		taskID:        occ.SourceID(),
		initial:       initial,
		pointerStartY: pointerY,
		startHeight:   m.axis.MinutesToPixels(initial),
	}
	s.height = s.startHeight
	m.resize = s
	return s, nil
}

// DragSession maps pointer positions onto drop targets. No write happens
// until Drop.
type DragSession struct {
	m          *Machine
	key        Key
	taskID     string
	grabOffset float64
	duration   int
	hover      Target
	done       bool
}

// TaskID returns the id of the stored task being dragged.
func (s *DragSession) TaskID() string { return s.taskID }

// GrabOffset returns the distance between the pointer and the block's top.
func (s *DragSession) GrabOffset() float64 { return s.grabOffset }

// Hover records the target under the pointer for previews.
func (s *DragSession) Hover(t Target) {
	if !s.done {
		s.hover = t
	}
}

// PreviewTime returns the time a drop on the hovered grid target would
// commit, if the pointer is over the grid.
func (s *DragSession) PreviewTime() (TimeOfDay, bool) {
	if s.done || s.hover.Kind != TimeGrid {
		return 0, false
	}
	return s.m.axis.ToTime(s.dropTop(s.hover.Y)), true
}

func (s *DragSession) dropTop(y float64) float64 {
	return math.Max(0, y-s.grabOffset)
}

// Drop ends the session. It returns the write for a valid target and false
// otherwise.
func (s *DragSession) Drop(t Target) (Write, bool) {
	if s.done {
		return Write{}, false
	}
	s.end()

	switch t.Kind {
	case PoolArea:
		return Write{Op: OpClearSchedule, TaskID: s.taskID}, true
	case AllDayLane:
		return Write{Op: OpSetSchedule, TaskID: s.taskID, Date: t.Date, Duration: s.duration}, true
	case TimeGrid:
		at := s.m.axis.ToTime(s.dropTop(t.Y))
		return Write{Op: OpSetSchedule, TaskID: s.taskID, Date: t.Date, Time: &at, Duration: s.duration}, true
	}
	return Write{}, false
}

// Cancel ends the session without a write.
func (s *DragSession) Cancel() {
	if !s.done {
		s.end()
	}
}

func (s *DragSession) end() {
	s.done = true
	if s.m.drag == s {
		s.m.drag = nil
	}
}

// ResizeSession tracks the transient height of a block being resized.
type ResizeSession struct {
	m             *Machine
	key           Key
	taskID        string
	initial       int
	pointerStartY float64
	startHeight   float64
	height        float64
	done          bool
}

// TaskID returns the id of the stored task being resized.
func (s *ResizeSession) TaskID() string { return s.taskID }

// InitialDuration returns the duration at gesture start.
func (s *ResizeSession) InitialDuration() int { return s.initial }

// Move updates the preview height from the pointer position. The height
// never drops below one slot.
func (s *ResizeSession) Move(pointerY float64) float64 {
	if s.done {
		return s.height
	}
	delta := pointerY - s.pointerStartY
	s.height = math.Max(s.m.axis.MinHeight(), s.startHeight+delta)
	return s.height
}

// Height returns the preview height.
func (s *ResizeSession) Height() float64 { return s.height }

// Duration returns the duration the current height would commit.
func (s *ResizeSession) Duration() int {
	return s.m.axis.RoundDuration(s.height)
}

// Release ends the session and returns the duration write. If lookup shows
// the task gone or no longer timed, the session ends without a write.
func (s *ResizeSession) Release(lookup TaskLookup) (Write, bool) {
	if s.done {
		return Write{}, false
	}
	s.end()

	if lookup != nil {
		t, ok := lookup(s.taskID)
		if !ok || t.Date == nil || t.Time == nil {
			return Write{}, false
		}
	}
	return Write{Op: OpSetDuration, TaskID: s.taskID, Duration: s.Duration()}, true
}

// Cancel ends the session without a write.
func (s *ResizeSession) Cancel() {
	if !s.done {
		s.end()
	}
}

func (s *ResizeSession) end() {
	s.done = true
	if s.m.resize == s {
		s.m.resize = nil
	}
}
