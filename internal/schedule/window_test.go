package schedule

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"midweek",
			time.Date(2026, time.April, 15, 13, 45, 0, 0, time.Local), // Wednesday
			time.Date(2026, time.April, 13, 0, 0, 0, 0, time.Local),
		},
		{
			"monday keeps its own midnight",
			time.Date(2026, time.April, 13, 0, 0, 0, 0, time.Local),
			time.Date(2026, time.April, 13, 0, 0, 0, 0, time.Local),
		},
		{
			"sunday belongs to the preceding monday",
			time.Date(2026, time.April, 19, 23, 59, 59, 0, time.Local),
			time.Date(2026, time.April, 13, 0, 0, 0, 0, time.Local),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WeekStart(tc.in); !got.Equal(tc.want) {
				t.Fatalf("WeekStart(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestWeekWindow(t *testing.T) {
	ref := time.Date(2026, time.April, 15, 13, 45, 0, 0, time.Local)
	from, to := WeekWindow(ref)

	if !from.Equal(time.Date(2026, time.April, 13, 0, 0, 0, 0, time.Local)) {
		t.Errorf("window start = %v", from)
	}
	if !to.Equal(time.Date(2026, time.April, 20, 0, 0, 0, 0, time.Local)) {
		t.Errorf("window end = %v", to)
	}
	if !ref.After(from) || !ref.Before(to) {
		t.Error("reference instant should fall inside its own window")
	}
}
