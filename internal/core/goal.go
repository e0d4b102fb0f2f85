package core

import "time"

// GoalStatus is the derived progress view of a savings goal.
type GoalStatus struct {
	Percent          float64 `json:"percent"`           // 0..100, capped at 100
	Remaining        float64 `json:"remaining"`         // 0 when reached
	MonthsLeft       int     `json:"months_left"`       // whole months until the deadline, 0 when past
	SuggestedMonthly float64 `json:"suggested_monthly"` // remaining spread over the months left
	Achieved         bool    `json:"achieved"`
}

// GoalProgress derives the progress of one goal at a point in time.
// Goals without a deadline report zero months left and no monthly
// suggestion.
func GoalProgress(g SavingsGoal, now time.Time) GoalStatus {
	var st GoalStatus
	if g.TargetAmount <= 0 {
		st.Achieved = g.SavedAmount > 0
		if st.Achieved {
			st.Percent = 100
		}
		return st
	}

	st.Percent = g.SavedAmount / g.TargetAmount * 100
	if st.Percent >= 100 {
		st.Percent = 100
		st.Achieved = true
		return st
	}
	st.Remaining = g.TargetAmount - g.SavedAmount

	if !g.Deadline.IsZero() && g.Deadline.After(now) {
		st.MonthsLeft = monthsBetween(now, g.Deadline)
		if st.MonthsLeft > 0 {
			st.SuggestedMonthly = st.Remaining / float64(st.MonthsLeft)
		} else {
			// Deadline inside the current month: the whole remainder
			// is due now.
			st.SuggestedMonthly = st.Remaining
		}
	}
	return st
}

func monthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if months < 0 {
		return 0
	}
	return months
}
