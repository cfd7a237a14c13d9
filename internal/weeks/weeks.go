// Package weeks maps game dates onto pool week numbers using a fixed
// calendar table. The mapping is deliberately static: each in-season month
// contributes five 7-day bands (days 1-7, 8-14, 15-21, 22-28, 29+), and the
// month offsets run September through January.
package weeks

import "time"

// monthOffset is the number of week slots consumed before each in-season
// month begins. Months outside the season window are absent.
var monthOffset = map[time.Month]int{
	time.September: 0,
	time.October:   5,
	time.November:  10,
	time.December:  15,
	time.January:   20,
}

// Classify returns the pool week number for a game date. Dates outside the
// September-January window fall back to week 1; that is a known
// simplification of the calendar model, not an error condition.
func Classify(date time.Time) int {
	offset, ok := monthOffset[date.Month()]
	if !ok {
		return 1
	}

	// Days 1-7 land in the first band, 29+ in the fifth.
	band := (date.Day() - 1) / 7
	return offset + band + 1
}

// SeasonYear returns the season a game date belongs to: the calendar year of
// the game itself, matching how the feed keys its seasons.
func SeasonYear(date time.Time) int {
	return date.Year()
}
