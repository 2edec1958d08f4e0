package dashboard

import (
	"reflect"
	"testing"
	"time"
)

func TestRoundHalfUp(t *testing.T) {
	tests := map[float64]int{
		43.04: 43,
		42.5:  43,
		42.49: 42,
		0:     0,
		-2.5:  -2,
		-2.51: -3,
		79.0:  79,
	}
	for in, want := range tests {
		if got := Round(in); got != want {
			t.Errorf("Round(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(64.5); got != "65%" {
		t.Fatalf("got %q", got)
	}
}

func TestDayLabelsFromThursday(t *testing.T) {
	var got []string
	for i := 0; i < 7; i++ {
		got = append(got, DayLabel(i, 3))
	}
	want := []string{"Thu", "Fri", "Sat", "Sun", "Mon", "Tue", "Wed"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestWeekdayIndexMondayFirst(t *testing.T) {
	if got := WeekdayIndex(time.Monday); got != 0 {
		t.Fatalf("Monday = %d", got)
	}
	if got := WeekdayIndex(time.Thursday); got != 3 {
		t.Fatalf("Thursday = %d", got)
	}
	if got := WeekdayIndex(time.Sunday); got != 6 {
		t.Fatalf("Sunday = %d", got)
	}
}
