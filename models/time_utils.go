package models

import "time"

// RestDaysBetween returns the number of whole calendar days between the last
// match and the kickoff. A last match after the kickoff is not usable.
func RestDaysBetween(last, kickoff time.Time) (int, bool) {
	if last.IsZero() || kickoff.IsZero() || last.After(kickoff) {
		return 0, false
	}

	ly, lm, ld := last.UTC().Date()
	ky, km, kd := kickoff.UTC().Date()
	lastDay := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	kickoffDay := time.Date(ky, km, kd, 0, 0, 0, 0, time.UTC)

	return int(kickoffDay.Sub(lastDay).Hours() / 24), true
}
