package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testPolicy() Policy {
	p := DefaultPolicy()
	p.Location = time.UTC
	return p
}

func at(hour, minute int) *time.Time {
	t := time.Date(2024, time.March, 4, hour, minute, 0, 0, time.UTC)
	return &t
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		name string
		in   *time.Time
		want string
	}{
		{"nil", nil, "--"},
		{"morning", at(9, 0), "09:00 AM"},
		{"afternoon", at(17, 5), "05:05 PM"},
		{"midnight", at(0, 0), "12:00 AM"},
		{"noon", at(12, 30), "12:30 PM"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, FormatClock(c.in, time.UTC))
		})
	}
}

func TestFormatClock_ConvertsToLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	assert.Equal(t, "04:00 PM", FormatClock(at(9, 0), jakarta))
}

func TestCalculateWorkHours(t *testing.T) {
	cases := []struct {
		name      string
		in, out   *time.Time
		workHours string
		overtime  string
		hours     float64
	}{
		{"missing check-in", nil, at(17, 0), "--", "--", 0},
		{"missing check-out", at(9, 0), nil, "--", "--", 0},
		{"both missing", nil, nil, "--", "--", 0},
		{"standard shift", at(9, 0), at(17, 0), "8.0h", "--", 8},
		{"overtime", at(9, 0), at(19, 30), "10.5h", "2.5h", 10.5},
		{"short shift", at(9, 0), at(11, 30), "2.5h", "--", 2.5},
		{"checkout before check-in", at(17, 0), at(9, 0), "0.0h", "--", 0},
		{"tiny overtime rounds away", at(9, 0), at(17, 2), "8.0h", "--", 8},
		{"overtime rounds up", at(9, 0), at(17, 3), "8.1h", "0.1h", 8.1},
		{"quarter hour overtime rounds half up", at(9, 0), at(17, 15), "8.3h", "0.3h", 8.3},
		{"quarter hour shift rounds half up", at(9, 0), at(9, 15), "0.3h", "--", 0.3},
		{"nine minutes stays below the half", at(9, 0), at(9, 9), "0.1h", "--", 0.1},
		{"twenty-seven minutes", at(9, 0), at(9, 27), "0.5h", "--", 0.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := CalculateWorkHours(c.in, c.out, 8*time.Hour)
			assert.Equal(t, c.workHours, got.WorkHours)
			assert.Equal(t, c.overtime, got.Overtime)
			assert.InDelta(t, c.hours, got.Hours, 1e-9)
		})
	}
}

func TestDetermineStatus(t *testing.T) {
	policy := testPolicy()
	cases := []struct {
		name     string
		in, out  *time.Time
		provided string
		want     Status
	}{
		{"no check-in", nil, nil, "", StatusAbsent},
		{"no check-in with checkout", nil, at(17, 0), "", StatusAbsent},
		{"on time, still working", at(9, 0), nil, "", StatusPresent},
		{"end of grace window, still working", at(9, 30), nil, "", StatusPresent},
		{"one minute late", at(9, 31), nil, "", StatusLate},
		{"late with full shift", at(9, 31), at(18, 0), "", StatusLate},
		{"late and short shift stays late", at(10, 0), at(11, 0), "", StatusLate},
		{"full shift", at(9, 0), at(17, 0), "", StatusPresent},
		{"short shift", at(9, 0), at(11, 30), "", StatusHalfDay},
		{"exactly four hours", at(9, 0), at(13, 0), "", StatusPresent},
		{"rounds up to four hours", at(9, 0), at(12, 57), "", StatusPresent},
		{"rounds down below four hours", at(9, 0), at(12, 56), "", StatusHalfDay},
		{"checkout before check-in", at(9, 0), at(8, 0), "", StatusHalfDay},
		{"early bird", at(7, 15), at(16, 0), "", StatusPresent},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, DetermineStatus(c.in, c.out, c.provided, policy))
		})
	}
}

func TestDetermineStatus_IgnoresSeconds(t *testing.T) {
	in := time.Date(2024, time.March, 4, 9, 30, 59, 0, time.UTC)
	assert.Equal(t, StatusPresent, DetermineStatus(&in, nil, "", testPolicy()))
}

func TestDetermineStatus_UsesPolicyLocation(t *testing.T) {
	policy := testPolicy()
	policy.Location = time.FixedZone("WIB", 7*60*60)

	// 02:00 UTC is 09:00 in UTC+7.
	assert.Equal(t, StatusPresent, DetermineStatus(at(2, 0), nil, "", policy))
	// 09:00 UTC is 16:00 in UTC+7.
	assert.Equal(t, StatusLate, DetermineStatus(at(9, 0), nil, "", policy))
}

func TestDetermineStatus_OverrideWins(t *testing.T) {
	policy := testPolicy()
	inputs := []struct {
		in, out *time.Time
	}{
		{nil, nil},
		{at(9, 0), nil},
		{at(9, 0), at(17, 0)},
		{at(9, 0), at(10, 0)},
		{at(11, 0), at(19, 0)},
	}
	for _, in := range inputs {
		assert.Equal(t, StatusLate, DetermineStatus(in.in, in.out, "LATE", policy))
	}
	assert.Equal(t, Status("ON_LEAVE"), DetermineStatus(at(9, 0), at(17, 0), "ON_LEAVE", policy))
}

func TestDetermineStatus_ConfigurablePolicy(t *testing.T) {
	policy := testPolicy()
	policy.WorkStart = 8 * time.Hour
	policy.GracePeriod = 15 * time.Minute
	policy.HalfDayThreshold = 5 * time.Hour

	assert.Equal(t, StatusLate, DetermineStatus(at(8, 16), nil, "", policy))
	assert.Equal(t, StatusHalfDay, DetermineStatus(at(8, 0), at(12, 30), "", policy))
}

func TestDerive(t *testing.T) {
	policy := testPolicy()

	t.Run("absent", func(t *testing.T) {
		v := Derive(nil, nil, "", policy)
		assert.Equal(t, View{CheckIn: "--", CheckOut: "--", WorkHours: "--", Overtime: "--", Status: StatusAbsent}, v)
	})

	t.Run("overtime", func(t *testing.T) {
		v := Derive(at(9, 0), at(19, 30), "", policy)
		assert.Equal(t, View{CheckIn: "09:00 AM", CheckOut: "07:30 PM", WorkHours: "10.5h", Overtime: "2.5h", Status: StatusPresent}, v)
	})

	t.Run("idempotent", func(t *testing.T) {
		first := Derive(at(9, 0), at(11, 30), "", policy)
		second := Derive(at(9, 0), at(11, 30), "", policy)
		assert.Equal(t, first, second)
		assert.Equal(t, StatusHalfDay, first.Status)
	})
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Present", StatusPresent.Label())
	assert.Equal(t, "Absent", StatusAbsent.Label())
	assert.Equal(t, "Late", StatusLate.Label())
	assert.Equal(t, "Half Day", StatusHalfDay.Label())
	assert.Equal(t, "ON_LEAVE", Status("ON_LEAVE").Label())
	assert.True(t, StatusHalfDay.IsValid())
	assert.False(t, Status("half_day").IsValid())
}

func TestPolicyAt(t *testing.T) {
	policy := testPolicy()
	date := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	got := policy.At(date, 17*time.Hour+45*time.Minute)
	assert.Equal(t, time.Date(2024, time.March, 4, 17, 45, 0, 0, time.UTC), got)
}

func TestAttendanceLocation(t *testing.T) {
	remote := "Remote work"
	other := "Client visit"
	assert.Equal(t, LocationRemote, Attendance{Notes: &remote}.Location())
	assert.Equal(t, LocationOffice, Attendance{Notes: &other}.Location())
	assert.Equal(t, LocationOffice, Attendance{}.Location())
}

func TestPolicyClockOfAndParseDate(t *testing.T) {
	policy := testPolicy()
	policy.Location = time.FixedZone("WIB", 7*60*60)

	assert.Equal(t, 16*time.Hour+30*time.Minute, policy.ClockOf(*at(9, 30)))

	date, err := policy.ParseDate("2024-03-04")
	assert.NoError(t, err)
	assert.Equal(t, policy.Location, date.Location())
	assert.Equal(t, 4, date.Day())

	_, err = policy.ParseDate("03/04/2024")
	assert.Error(t, err)
}

func TestPolicyToday(t *testing.T) {
	policy := testPolicy()
	policy.Location = time.FixedZone("WIB", 7*60*60)

	// 20:00 UTC on the 4th is already the 5th in UTC+7.
	now := time.Date(2024, time.March, 4, 20, 0, 0, 0, time.UTC)
	today := policy.Today(now)
	assert.Equal(t, 5, today.Day())
	assert.Equal(t, 0, today.Hour())
}
