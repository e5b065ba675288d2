package schedule

import "math"

// DefaultPixelsPerHour gives one pixel per minute.
const DefaultPixelsPerHour = 60

// snapEpsilon absorbs float error before flooring, so an offset produced by
// ToOffset maps back onto the same slot.
const snapEpsilon = 1e-9

// Axis converts between time of day and vertical pixel offsets.
// The zero Axis uses DefaultPixelsPerHour.
type Axis struct {
	PixelsPerHour float64
}

// NewAxis returns an axis with the given scale.
func NewAxis(pixelsPerHour float64) Axis {
	return Axis{PixelsPerHour: pixelsPerHour}
}

func (a Axis) pph() float64 {
	if a.PixelsPerHour <= 0 {
		return DefaultPixelsPerHour
	}
	return a.PixelsPerHour
}

// PixelsPerMinute returns the axis scale per minute.
func (a Axis) PixelsPerMinute() float64 {
	return a.pph() / 60
}

// MinutesToPixels converts a duration to a height.
func (a Axis) MinutesToPixels(minutes int) float64 {
	return float64(minutes) * a.pph() / 60
}

// PixelsToMinutes converts a height to a duration without snapping.
func (a Axis) PixelsToMinutes(px float64) float64 {
	return px * 60 / a.pph()
}

// ToOffset returns the vertical offset of t.
func (a Axis) ToOffset(t TimeOfDay) float64 {
	return a.MinutesToPixels(t.Hour()*60 + t.Minute())
}

// DayHeight returns the height of the full 24-hour column.
func (a Axis) DayHeight() float64 {
	return a.MinutesToPixels(MinutesPerDay)
}

// ToTime converts an offset to a time of day, snapped down to the slot at
// or before the offset. Offsets outside the column are clamped to it.
func (a Axis) ToTime(px float64) TimeOfDay {
	if px < 0 {
		px = 0
	}
	total := int(math.Floor(a.PixelsToMinutes(px) + snapEpsilon))
	snapped := total / SlotMinutes * SlotMinutes
	hour := ClampToDay(snapped / 60)
	minute := snapped % 60
	if snapped >= MinutesPerDay {
		minute = 60 - SlotMinutes
	}
	return NewTimeOfDay(hour, minute)
}

// ClampToDay bounds an hour to [0, 23].
func ClampToDay(hour int) int {
	return min(23, max(0, hour))
}

// RoundDuration converts a height to minutes rounded to the nearest slot,
// never below MinDuration.
func (a Axis) RoundDuration(px float64) int {
	slots := math.Round(a.PixelsToMinutes(px) / SlotMinutes)
	return max(MinDuration, int(slots)*SlotMinutes)
}

// MinHeight is the height of one slot.
func (a Axis) MinHeight() float64 {
	return a.MinutesToPixels(MinDuration)
}
