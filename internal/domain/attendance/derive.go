package attendance

import (
	"math"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Placeholder is rendered for any time or duration that cannot be computed.
const Placeholder = "--"

const clockLayout = "03:04 PM"

// Policy holds the working-day rules used to classify attendance.
type Policy struct {
	// WorkStart is the nominal start of the day, as an offset from midnight.
	WorkStart        time.Duration
	GracePeriod      time.Duration
	StandardShift    time.Duration
	HalfDayThreshold time.Duration
	Location         *time.Location
}

// DefaultPolicy is a 9:00 start with a 30 minute grace window, an 8 hour
// standard shift and a 4 hour half-day threshold, in the server's local zone.
func DefaultPolicy() Policy {
	return Policy{
		WorkStart:        9 * time.Hour,
		GracePeriod:      30 * time.Minute,
		StandardShift:    8 * time.Hour,
		HalfDayThreshold: 4 * time.Hour,
		Location:         time.Local,
	}
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// LateAfter is the latest check-in offset from midnight that is not late.
func (p Policy) LateAfter() time.Duration {
	return p.WorkStart + p.GracePeriod
}

// At combines a calendar date with a clock offset in the policy location.
func (p Policy) At(date time.Time, clock time.Duration) time.Time {
	hour := int(clock / time.Hour)
	minute := int((clock % time.Hour) / time.Minute)
	second := int((clock % time.Minute) / time.Second)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, second, 0, p.location())
}

// ClockOf returns the offset of t from midnight in the policy location.
func (p Policy) ClockOf(t time.Time) time.Duration {
	local := t.In(p.location())
	return time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second
}

// ParseDate reads a YYYY-MM-DD calendar date in the policy location.
func (p Policy) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, p.location())
}

// Today returns the current calendar date in the policy location.
func (p Policy) Today(now time.Time) time.Time {
	local := now.In(p.location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.location())
}

// View is the display form of an attendance record. It is recomputed on every
// read and never persisted.
type View struct {
	CheckIn   string
	CheckOut  string
	WorkHours string
	Overtime  string
	Status    Status
}

// WorkHours is the result of CalculateWorkHours.
type WorkHours struct {
	WorkHours string
	Overtime  string
	// Hours is the elapsed time rounded to one decimal, zero when incomplete.
	Hours    float64
	Complete bool
}

// FormatClock renders t as a 12-hour clock in loc, or Placeholder when t is nil.
func FormatClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return Placeholder
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(clockLayout)
}

// CalculateWorkHours returns the time worked between checkIn and checkOut and
// the overtime beyond standardShift. A checkout earlier than the check-in is
// floored to zero hours.
func CalculateWorkHours(checkIn, checkOut *time.Time, standardShift time.Duration) WorkHours {
	if checkIn == nil || checkOut == nil {
		return WorkHours{WorkHours: Placeholder, Overtime: Placeholder}
	}

	elapsed := math.Max(0, float64(checkOut.Sub(*checkIn).Milliseconds())/msPerHour)
	overtime := math.Max(0, elapsed-standardShift.Hours())

	worked := roundTenths(elapsed)
	hours, _ := worked.Float64()

	result := WorkHours{
		WorkHours: worked.StringFixed(1) + "h",
		Overtime:  Placeholder,
		Hours:     hours,
		Complete:  true,
	}
	if extra := roundTenths(overtime); !extra.IsZero() {
		result.Overtime = extra.StringFixed(1) + "h"
	}
	return result
}

// DetermineStatus classifies a record. The order of checks matters: a
// provided status always wins, then a missing check-in, then lateness, then an
// open checkout, then a short shift.
func DetermineStatus(checkIn, checkOut *time.Time, provided string, policy Policy) Status {
	if provided != "" {
		return Status(provided)
	}

	if checkIn == nil {
		return StatusAbsent
	}

	sinceMidnight := policy.ClockOf(*checkIn).Truncate(time.Minute)
	if sinceMidnight > policy.LateAfter() {
		return StatusLate
	}

	if checkOut == nil {
		return StatusPresent
	}

	worked := CalculateWorkHours(checkIn, checkOut, policy.StandardShift)
	if worked.Hours < policy.HalfDayThreshold.Hours() {
		return StatusHalfDay
	}

	return StatusPresent
}

// Derive builds the full display view for a single record.
func Derive(checkIn, checkOut *time.Time, provided string, policy Policy) View {
	worked := CalculateWorkHours(checkIn, checkOut, policy.StandardShift)
	return View{
		CheckIn:   FormatClock(checkIn, policy.location()),
		CheckOut:  FormatClock(checkOut, policy.location()),
		WorkHours: worked.WorkHours,
		Overtime:  worked.Overtime,
		Status:    DetermineStatus(checkIn, checkOut, provided, policy),
	}
}

const msPerHour = 60 * 60 * 1000

// roundTenths rounds a non-negative h to one decimal, halves up, using the
// exact binary value of h. 0.25 becomes 0.3 while 0.15 (stored just below
// 0.15) becomes 0.1.
func roundTenths(h float64) decimal.Decimal {
	r := new(big.Rat).SetFloat64(h)
	r.Mul(r, big.NewRat(10, 1))
	r.Add(r, big.NewRat(1, 2))
	tenths := new(big.Int).Quo(r.Num(), r.Denom())
	return decimal.NewFromBigInt(tenths, -1)
}
