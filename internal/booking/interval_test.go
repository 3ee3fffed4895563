package booking

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
    t := date(y, m, d)
    return &t
}

func strPtr(s string) *string { return &s }

func span(start time.Time, end *time.Time) Span {
    return Span{Start: start, End: end}
}

func TestOverlaps_DayRanges(t *testing.T) {
    cases := []struct {
        name string
        a, b Span
        want bool
    }{
        {
            name: "disjoint ranges do not overlap",
            a:    span(date(2024, 3, 1), datePtr(2024, 3, 5)),
            b:    span(date(2024, 3, 10), datePtr(2024, 3, 12)),
            want: false,
        },
        {
            name: "contained range overlaps",
            a:    span(date(2024, 3, 1), datePtr(2024, 3, 10)),
            b:    span(date(2024, 3, 4), datePtr(2024, 3, 6)),
            want: true,
        },
        {
            name: "partial overlap at the front",
            a:    span(date(2024, 3, 1), datePtr(2024, 3, 5)),
            b:    span(date(2024, 3, 4), datePtr(2024, 3, 8)),
            want: true,
        },
        {
            name: "boundary-touching ranges never overlap",
            a:    span(date(2024, 3, 1), datePtr(2024, 3, 5)),
            b:    span(date(2024, 3, 5), datePtr(2024, 3, 8)),
            want: false,
        },
        {
            name: "open-ended range overlaps anything after its start",
            a:    span(date(2024, 3, 1), nil),
            b:    span(date(2024, 9, 1), datePtr(2024, 9, 2)),
            want: true,
        },
        {
            name: "open-ended range does not reach backwards",
            a:    span(date(2024, 3, 10), nil),
            b:    span(date(2024, 3, 1), datePtr(2024, 3, 10)),
            want: false,
        },
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, Overlaps(tc.a, tc.b))
            // the relation is symmetric
            assert.Equal(t, tc.want, Overlaps(tc.b, tc.a))
        })
    }
}

func TestOverlaps_MatchesIntervalArithmetic(t *testing.T) {
    // For bounded ranges the result must equal a1<d2 && a2<d1.
    starts := []time.Time{date(2024, 1, 1), date(2024, 1, 3), date(2024, 1, 5)}
    for _, a1 := range starts {
        for _, a2 := range starts {
            d1 := a1.AddDate(0, 0, 2)
            d2 := a2.AddDate(0, 0, 3)
            got := Overlaps(span(a1, &d1), span(a2, &d2))
            want := a1.Before(d2) && a2.Before(d1)
            assert.Equal(t, want, got, "a1=%v a2=%v", a1, a2)
        }
    }
}

func TestParseClock(t *testing.T) {
    d, err := ParseClock("14:30:15")
    require.NoError(t, err)
    assert.Equal(t, 14*time.Hour+30*time.Minute+15*time.Second, d)

    for _, bad := range []string{"", "25:00:00", "12:60:00", "12:00", "ab:cd:ef", "12:00:00:00"} {
        _, err := ParseClock(bad)
        assert.Error(t, err, "expected %q to be rejected", bad)
    }
}

func TestAddClock(t *testing.T) {
    got, wrapped, err := AddClock("10:15:00", "02:00:00")
    require.NoError(t, err)
    assert.Equal(t, "12:15:00", got)
    assert.False(t, wrapped)

    got, wrapped, err = AddClock("23:30:00", "01:00:00")
    require.NoError(t, err)
    assert.Equal(t, "00:30:00", got)
    assert.True(t, wrapped)
}

func TestAt_CombinesDateAndClock(t *testing.T) {
    got := At(date(2024, 5, 2), "08:45:00")
    assert.Equal(t, time.Date(2024, 5, 2, 8, 45, 0, 0, time.UTC), got)
}

func TestClockHours(t *testing.T) {
    assert.Equal(t, int64(2), ClockHours("02:00:00"))
    assert.Equal(t, int64(3), ClockHours("03:59:00"))
    assert.Equal(t, int64(0), ClockHours("bogus"))
}

func TestWholeDays(t *testing.T) {
    assert.Equal(t, int64(2), WholeDays(date(2024, 3, 1), date(2024, 3, 3)))
    assert.Equal(t, int64(2), WholeDays(date(2024, 3, 3), date(2024, 3, 1)))
    assert.Equal(t, int64(0), WholeDays(date(2024, 3, 1), date(2024, 3, 1)))
}
