// Package timephrase renders the current instant as natural-language
// clock and calendar phrases for injection into the model prompt.
package timephrase

import "time"

// Period labels follow half-open hour ranges: [0,12) morning,
// [12,17) afternoon, [17,24) evening.
const (
	morning   = "in the morning"
	afternoon = "in the afternoon"
	evening   = "in the evening"
)

// Phrases returns the clock phrase and the calendar phrase for t.
// Recomputed per call; callers pass time.Now() already shifted into the
// reference zone.
func Phrases(t time.Time) (clock, date string) {
	return Clock(t), Date(t)
}

// Clock renders t as a spoken time phrase, e.g.
// "It's ten minutes to one in the morning."
func Clock(t time.Time) string {
	hour := t.Hour()
	minute := t.Minute()

	period := periodFor(hour)
	displayHour := hour % 12
	if displayHour == 0 {
		displayHour = 12
	}

	switch {
	case minute == 0:
		return "It's " + toWords(displayHour) + " o'clock " + period + "."
	case minute == 15:
		return "It's quarter past " + toWords(displayHour) + " " + period + "."
	case minute == 30:
		return "It's half past " + toWords(displayHour) + " " + period + "."
	case minute == 45:
		next, nextPeriod := nextHour(hour, displayHour, period)
		return "It's quarter to " + toWords(next) + " " + nextPeriod + "."
	case minute < 30:
		return "It's " + toWords(minute) + " minutes past " + toWords(displayHour) + " " + period + "."
	default:
		next, nextPeriod := nextHour(hour, displayHour, period)
		return "It's " + toWords(60-minute) + " minutes to " + toWords(next) + " " + nextPeriod + "."
	}
}

// Date renders t as "Today is {Weekday}, {Month} {Day}{suffix}, {Year}."
// with the year spelled out in words.
func Date(t time.Time) string {
	day := t.Day()
	return "Today is " + t.Weekday().String() + ", " + t.Month().String() + " " +
		itoa(day) + ordinalSuffix(day) + ", " + toWords(t.Year()) + "."
}

func periodFor(hour int) string {
	switch {
	case hour < 12:
		return morning
	case hour < 17:
		return afternoon
	default:
		return evening
	}
}

// nextHour wraps the 12-hour display value and advances the period label
// when the wall-clock hour boundary crosses noon or midnight. The
// midnight crossing reads as "one in the morning", not "twelve".
func nextHour(hour, displayHour int, period string) (int, string) {
	switch hour {
	case 11:
		return 12, afternoon
	case 23:
		return 1, morning
	}
	next := displayHour + 1
	if displayHour == 12 {
		next = 1
	}
	return next, period
}

// ordinalSuffix follows English rules: 1st/2nd/3rd, the 11th-13th
// exception, and "th" otherwise, repeating per decade.
func ordinalSuffix(n int) string {
	if v := n % 100; v >= 11 && v <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
