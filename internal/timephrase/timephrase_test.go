package timephrase

import (
	"strings"
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 21, hour, minute, 0, 0, time.UTC)
}

func TestClockExactHour(t *testing.T) {
	got := Clock(at(9, 0))
	if got != "It's nine o'clock in the morning." {
		t.Fatalf("unexpected phrase: %q", got)
	}
}

func TestClockQuarterAndHalf(t *testing.T) {
	if got := Clock(at(14, 15)); got != "It's quarter past two in the afternoon." {
		t.Fatalf("unexpected phrase: %q", got)
	}
	if got := Clock(at(18, 30)); got != "It's half past six in the evening." {
		t.Fatalf("unexpected phrase: %q", got)
	}
}

func TestClockMinutesPast(t *testing.T) {
	if got := Clock(at(0, 5)); got != "It's five minutes past twelve in the morning." {
		t.Fatalf("unexpected phrase: %q", got)
	}
}

func TestClockMinutesToWrapsMidnight(t *testing.T) {
	if got := Clock(at(23, 50)); got != "It's ten minutes to one in the morning." {
		t.Fatalf("unexpected phrase: %q", got)
	}
	if got := Clock(at(23, 45)); got != "It's quarter to one in the morning." {
		t.Fatalf("unexpected phrase: %q", got)
	}
}

func TestClockQuarterToCrossesNoon(t *testing.T) {
	if got := Clock(at(11, 45)); got != "It's quarter to twelve in the afternoon." {
		t.Fatalf("unexpected phrase: %q", got)
	}
}

func TestClockTwelveWrapsToOne(t *testing.T) {
	if got := Clock(at(12, 45)); got != "It's quarter to one in the afternoon." {
		t.Fatalf("unexpected phrase: %q", got)
	}
}

// Every minute of every hour must land in exactly one of the six
// documented phrase shapes.
func TestClockAlwaysWellFormed(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute++ {
			got := Clock(at(hour, minute))
			if !strings.HasPrefix(got, "It's ") || !strings.HasSuffix(got, ".") {
				t.Fatalf("malformed phrase at %02d:%02d: %q", hour, minute, got)
			}
			shapes := 0
			for _, marker := range []string{"o'clock", "quarter past", "half past", "quarter to", "minutes past", "minutes to"} {
				if strings.Contains(got, marker) {
					shapes++
				}
			}
			if shapes != 1 {
				t.Fatalf("phrase at %02d:%02d matches %d shapes: %q", hour, minute, shapes, got)
			}
			for _, digit := range "0123456789" {
				if strings.ContainsRune(got, digit) {
					t.Fatalf("phrase at %02d:%02d contains digits: %q", hour, minute, got)
				}
			}
		}
	}
}

func TestDate(t *testing.T) {
	got := Date(time.Date(2026, time.March, 21, 10, 0, 0, 0, time.UTC))
	want := "Today is Saturday, March 21st, two thousand twenty-six."
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestOrdinalSuffix(t *testing.T) {
	cases := map[int]string{
		1: "st", 2: "nd", 3: "rd", 4: "th", 11: "th", 12: "th", 13: "th",
		21: "st", 22: "nd", 23: "rd", 30: "th", 31: "st",
	}
	for n, want := range cases {
		if got := ordinalSuffix(n); got != want {
			t.Errorf("ordinalSuffix(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestToWords(t *testing.T) {
	cases := map[int]string{
		0:    "zero",
		7:    "seven",
		15:   "fifteen",
		21:   "twenty-one",
		40:   "forty",
		59:   "fifty-nine",
		2000: "two thousand",
		2026: "two thousand twenty-six",
		1999: "one thousand nine hundred ninety-nine",
	}
	for n, want := range cases {
		if got := toWords(n); got != want {
			t.Errorf("toWords(%d) = %q, want %q", n, got, want)
		}
	}
}
