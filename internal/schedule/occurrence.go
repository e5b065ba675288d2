package schedule

// Kind tags an occurrence as backed by stored data or projected.
type Kind int

const (
	Real Kind = iota
	Virtual
)

func (k Kind) String() string {
	if k == Virtual {
		return "virtual"
	}
	return "real"
}

// Key identifies an occurrence. Real keys carry a zero Date; virtual keys
// carry the projected date, so a projection never collides with the real
// occurrence or with another projection of the same task.
type Key struct {
	Kind   Kind
	TaskID string
	Date   Date
}

// RealKey returns the key of the real occurrence of a task.
func RealKey(taskID string) Key {
	return Key{Kind: Real, TaskID: taskID}
}

// VirtualKey returns the key of the projection of a task onto date.
func VirtualKey(taskID string, date Date) Key {
	return Key{Kind: Virtual, TaskID: taskID, Date: date}
}

// String renders the key for logs and exported UIDs.
func (k Key) String() string {
	if k.Kind == Virtual {
		return k.TaskID + "@" + k.Date.String()
	}
	return k.TaskID
}

// Occurrence is a task instance placed (or placeable) on the board.
type Occurrence struct {
	Key Key

	Title     string
	ProjectID string
	Priority  string

	Date     *Date
	Time     *TimeOfDay
	Duration int

	Recurrence Recurrence
	Completed  bool
}

// RealOccurrence wraps a stored task.
func RealOccurrence(t Task) Occurrence {
	return Occurrence{
		Key:        RealKey(t.ID),
		Title:      t.Title,
		ProjectID:  t.ProjectID,
		Priority:   t.Priority,
		Date:       t.Date,
		Time:       t.Time,
		Duration:   t.EffectiveDuration(),
		Recurrence: t.Recurrence,
		Completed:  t.Completed,
	}
}

// VirtualOccurrence projects t onto date. Projections are never completed.
func VirtualOccurrence(t Task, date Date) Occurrence {
	o := RealOccurrence(t)
	o.Key = VirtualKey(t.ID, date)
	o.Date = ptr(date)
	o.Completed = false
	return o
}

// SourceID returns the id of the stored task behind the occurrence.
func (o Occurrence) SourceID() string { return o.Key.TaskID }

// IsVirtual reports whether o is a projection.
func (o Occurrence) IsVirtual() bool { return o.Key.Kind == Virtual }

// Placement returns the occurrence's placement state.
func (o Occurrence) Placement() Placement {
	return placementOf(o.Date, o.Time)
}

// Start returns the start in minutes past midnight; 0 when untimed.
func (o Occurrence) Start() int {
	if o.Time == nil {
		return 0
	}
	return int(*o.Time)
}

// End returns the exclusive end in minutes past midnight. It may exceed
// MinutesPerDay for blocks that run past midnight.
func (o Occurrence) End() int {
	return o.Start() + normalizeDuration(o.Duration)
}

// Overlaps reports whether the [start, end) ranges of o and p intersect.
func (o Occurrence) Overlaps(p Occurrence) bool {
	return o.Start() < p.End() && p.Start() < o.End()
}
