package core

import (
	"testing"
	"time"
)

func TestGoalProgress(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("halfway with deadline", func(t *testing.T) {
		g := SavingsGoal{Name: "Trip", TargetAmount: 1000, SavedAmount: 500, Currency: "USD",
			Deadline: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)}

		st := GoalProgress(g, now)
		if st.Percent != 50 {
			t.Errorf("Percent = %v, want 50", st.Percent)
		}
		if st.Remaining != 500 {
			t.Errorf("Remaining = %v, want 500", st.Remaining)
		}
		if st.MonthsLeft != 5 {
			t.Errorf("MonthsLeft = %d, want 5", st.MonthsLeft)
		}
		if st.SuggestedMonthly != 100 {
			t.Errorf("SuggestedMonthly = %v, want 100", st.SuggestedMonthly)
		}
		if st.Achieved {
			t.Error("Achieved = true, want false")
		}
	})

	t.Run("reached caps at 100", func(t *testing.T) {
		g := SavingsGoal{Name: "Fund", TargetAmount: 1000, SavedAmount: 1200, Currency: "USD"}
		st := GoalProgress(g, now)
		if st.Percent != 100 || !st.Achieved || st.Remaining != 0 {
			t.Errorf("status = %+v, want achieved at 100%%", st)
		}
	})

	t.Run("no deadline means no monthly suggestion", func(t *testing.T) {
		g := SavingsGoal{Name: "Someday", TargetAmount: 1000, SavedAmount: 100, Currency: "USD"}
		st := GoalProgress(g, now)
		if st.MonthsLeft != 0 || st.SuggestedMonthly != 0 {
			t.Errorf("status = %+v, want no schedule without a deadline", st)
		}
	})

	t.Run("deadline this month asks for the remainder", func(t *testing.T) {
		g := SavingsGoal{Name: "Rush", TargetAmount: 300, SavedAmount: 100, Currency: "USD",
			Deadline: time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)}
		st := GoalProgress(g, now)
		if st.SuggestedMonthly != 200 {
			t.Errorf("SuggestedMonthly = %v, want the full remainder 200", st.SuggestedMonthly)
		}
	})
}
