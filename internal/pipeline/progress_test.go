package pipeline

import (
	"testing"

	"github.com/theirongolddev/khata/internal/model"
)

func TestGoalProgress_TwoDeposits(t *testing.T) {
	g := model.Goal{TargetAmount: dec(t, "1000"), CurrentAmount: dec(t, "250").Add(dec(t, "250"))}
	if got := GoalProgressPercent(g); got != 50 {
		t.Fatalf("GoalProgressPercent = %d, want 50", got)
	}
}

func TestGoalProgress_ZeroTarget(t *testing.T) {
	g := model.Goal{CurrentAmount: dec(t, "10")}
	if got := GoalProgressPercent(g); got != 0 {
		t.Fatalf("GoalProgressPercent = %d, want 0", got)
	}
}

func TestLiabilityProgress_Overpayment(t *testing.T) {
	l := model.Liability{TotalAmount: dec(t, "2000"), PaidAmount: dec(t, "2500")}
	got := LiabilityProgressPercent(l)
	if got != 125 {
		t.Fatalf("LiabilityProgressPercent = %d, want 125", got)
	}
	if bar := ClampPercent(got); bar != 100 {
		t.Fatalf("ClampPercent(%d) = %d, want 100", got, bar)
	}
	if !l.Remaining().Equal(dec(t, "-500")) {
		t.Fatalf("Remaining = %s, want -500", l.Remaining())
	}
}

func TestPercent_Rounds(t *testing.T) {
	tests := []struct {
		part, whole string
		want        int
	}{
		{"1", "3", 33},
		{"2", "3", 67},
		{"1", "8", 13}, // 12.5 rounds half up
		{"0", "5", 0},
		{"5", "0", 0},
		{"5", "-1", 0},
	}
	for _, tt := range tests {
		if got := Percent(dec(t, tt.part), dec(t, tt.whole)); got != tt.want {
			t.Errorf("Percent(%s, %s) = %d, want %d", tt.part, tt.whole, got, tt.want)
		}
	}
}

func TestClampPercent(t *testing.T) {
	for in, want := range map[int]int{-5: 0, 0: 0, 42: 42, 100: 100, 250: 100} {
		if got := ClampPercent(in); got != want {
			t.Errorf("ClampPercent(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestSavingsRateAndExpenseRatio(t *testing.T) {
	if got := SavingsRate(dec(t, "100"), dec(t, "40")); got != 60 {
		t.Errorf("SavingsRate = %d, want 60", got)
	}
	if got := SavingsRate(dec(t, "100"), dec(t, "140")); got != 0 {
		t.Errorf("SavingsRate overspent = %d, want 0", got)
	}
	if got := SavingsRate(dec(t, "0"), dec(t, "40")); got != 0 {
		t.Errorf("SavingsRate no income = %d, want 0", got)
	}
	if got := ExpenseRatio(dec(t, "100"), dec(t, "40")); got != 40 {
		t.Errorf("ExpenseRatio = %d, want 40", got)
	}
	if got := ExpenseRatio(dec(t, "100"), dec(t, "300")); got != 100 {
		t.Errorf("ExpenseRatio overspent = %d, want 100", got)
	}
	if got := ExpenseRatio(dec(t, "0"), dec(t, "300")); got != 0 {
		t.Errorf("ExpenseRatio no income = %d, want 0", got)
	}
}

func TestAttainment(t *testing.T) {
	s := model.Summary{TotalIncome: dec(t, "1000"), TotalExpense: dec(t, "250")}
	goals := []model.Goal{
		{TargetAmount: dec(t, "1000"), CurrentAmount: dec(t, "500")},
		{TargetAmount: dec(t, "1000"), CurrentAmount: dec(t, "0")},
	}
	liabilities := []model.Liability{
		{TotalAmount: dec(t, "400"), PaidAmount: dec(t, "100")},
	}

	a := Attainment(s, goals, liabilities)
	if a.GoalProgress != 25 {
		t.Errorf("GoalProgress = %d, want 25", a.GoalProgress)
	}
	if a.DebtProgress != 25 || a.RemainingLiability != 75 {
		t.Errorf("DebtProgress/Remaining = %d/%d, want 25/75", a.DebtProgress, a.RemainingLiability)
	}
	if a.SavingsRate != 75 || a.ExpenseRatio != 25 {
		t.Errorf("SavingsRate/ExpenseRatio = %d/%d, want 75/25", a.SavingsRate, a.ExpenseRatio)
	}
}

func TestAttainment_NoLiabilities(t *testing.T) {
	a := Attainment(model.Summary{}, nil, nil)
	if a.GoalProgress != 0 || a.DebtProgress != 0 || a.RemainingLiability != 0 {
		t.Fatalf("empty attainment = %+v, want zeros", a)
	}
}
