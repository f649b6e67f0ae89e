package report

import (
	"fmt"
	"reflect"
	"testing"

	"lompakko/internal/domain/budget"
	"lompakko/internal/domain/expense"
	"lompakko/internal/domain/income"
	"lompakko/internal/domain/loan"
	"lompakko/internal/domain/savings"
)

func exp(amount float64, category string) *expense.Expense {
	return &expense.Expense{Amount: amount, Category: category, Description: "test"}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name   string
		part   float64
		whole  float64
		places int32
		want   float64
	}{
		{"basic", 50, 200, 1, 25},
		{"rounds half up", 991.88, 1200, 1, 82.7},
		{"zero whole", 100, 0, 1, 0},
		{"negative whole", 100, -10, 1, 0},
		{"over hundred", 150, 100, 1, 150},
		{"no decimals", 1, 3, 0, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(tt.part, tt.whole, tt.places)
			if got != tt.want {
				t.Errorf("Percentage(%v, %v, %d) = %v, want %v", tt.part, tt.whole, tt.places, got, tt.want)
			}
		})
	}
}

func TestClassifyUsage(t *testing.T) {
	tests := []struct {
		percentage float64
		want       string
	}{
		{0, UsageGreen},
		{74.9, UsageGreen},
		{75, UsageAmber},
		{82.7, UsageAmber},
		{99.9, UsageAmber},
		{100, UsageRed},
		{130.5, UsageRed},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.1f", tt.percentage), func(t *testing.T) {
			if got := ClassifyUsage(tt.percentage); got != tt.want {
				t.Errorf("ClassifyUsage(%v) = %q, want %q", tt.percentage, got, tt.want)
			}
		})
	}
}

func TestExpenseCategories(t *testing.T) {
	expenses := []*expense.Expense{
		exp(60, "Ruoka"),
		exp(30, "Liikenne"),
		exp(10, ""),
		exp(40, "Ruoka"),
	}

	got := ExpenseCategories(expenses)

	if len(got) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(got))
	}
	if got[0].Name != "Ruoka" || got[0].Amount != 100 {
		t.Errorf("largest category = %q (%v), want Ruoka (100)", got[0].Name, got[0].Amount)
	}
	if got[0].Percentage != 71.4 {
		t.Errorf("Ruoka percentage = %v, want 71.4", got[0].Percentage)
	}
	// Empty category falls back to the default bucket.
	if got[2].Name != expense.DefaultCategory {
		t.Errorf("uncategorized bucket = %q, want %q", got[2].Name, expense.DefaultCategory)
	}
}

// Category shares are rounded to one decimal place each, so their sum
// may drift from 100 by at most half a unit in the last place per
// category, and the category amounts must add up to the expense total
// exactly.
func TestExpenseCategories_PercentageSum(t *testing.T) {
	tests := []struct {
		name     string
		expenses []*expense.Expense
	}{
		{
			name: "thirds",
			expenses: []*expense.Expense{
				exp(10, "Ruoka"), exp(10, "Liikenne"), exp(10, "Viihde"),
			},
		},
		{
			name: "uneven cents",
			expenses: []*expense.Expense{
				exp(19.99, "Ruoka"), exp(3.33, "Liikenne"), exp(0.01, "Viihde"),
				exp(123.45, "Asuminen"), exp(7.77, "Muut"),
			},
		},
		{
			name: "single category",
			expenses: []*expense.Expense{
				exp(42.42, "Ruoka"), exp(57.58, "Ruoka"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			categories := ExpenseCategories(tt.expenses)
			total := SumExpenses(tt.expenses)

			var pctSum, amountSum float64
			for _, c := range categories {
				pctSum += c.Percentage
				amountSum += c.Amount
			}

			tolerance := 0.05 * float64(len(categories))
			if diff := pctSum - 100; diff > tolerance || diff < -tolerance {
				t.Errorf("percentages sum to %v, want 100 within %v", pctSum, tolerance)
			}
			if diff := amountSum - total; diff > 1e-6 || diff < -1e-6 {
				t.Errorf("category amounts sum to %v, want total %v", amountSum, total)
			}
		})
	}
}

func TestExpenseCategories_Empty(t *testing.T) {
	got := ExpenseCategories(nil)
	if len(got) != 0 {
		t.Errorf("expected no categories, got %d", len(got))
	}
}

func TestIncomeSources(t *testing.T) {
	incomes := []*income.Income{
		{Amount: 2500, Source: "salary"},
		{Amount: 300, Source: "freelance"},
		{Amount: 500, Source: "salary"},
	}

	got := IncomeSources(incomes)

	if len(got) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(got))
	}
	if got[0].Name != "Palkka" || got[0].Amount != 3000 {
		t.Errorf("largest source = %q (%v), want Palkka (3000)", got[0].Name, got[0].Amount)
	}
	if got[1].Name != "Freelance-työt" {
		t.Errorf("second source = %q, want Freelance-työt", got[1].Name)
	}
}

func TestBuildSummary(t *testing.T) {
	b := &budget.Budget{Amount: 1200, Month: "2024-03"}
	expenses := []*expense.Expense{
		exp(500, "Asuminen"),
		exp(300.50, "Ruoka"),
		exp(191.38, "Liikenne"),
	}
	incomes := []*income.Income{
		{Amount: 2800, Source: "salary"},
	}
	loans := []*loan.Loan{
		{RemainingAmount: 15000, MonthlyPayment: 450},
	}
	goals := []*savings.Goal{
		{CurrentAmount: 4000, TargetAmount: 10000},
	}

	s := BuildSummary("2024-03", b, expenses, incomes, loans, goals)

	if s.Budget.Spent != 991.88 {
		t.Errorf("spent = %v, want 991.88", s.Budget.Spent)
	}
	if s.Budget.Percentage != 82.7 {
		t.Errorf("budget percentage = %v, want 82.7", s.Budget.Percentage)
	}
	if got := ClassifyUsage(s.Budget.Percentage); got != UsageAmber {
		t.Errorf("usage level = %q, want %q", got, UsageAmber)
	}
	if s.Budget.Remaining != 208.12 {
		t.Errorf("budget remaining = %v, want 208.12", s.Budget.Remaining)
	}
	if s.Income.Total != 2800 || s.Income.Count != 1 {
		t.Errorf("income = %v/%d, want 2800/1", s.Income.Total, s.Income.Count)
	}
	// remaining = income - expenses - monthly loan payments
	if s.Balance.Remaining != 1358.12 {
		t.Errorf("remaining = %v, want 1358.12", s.Balance.Remaining)
	}
	if s.Balance.NetWorth != -11000 {
		t.Errorf("net worth = %v, want -11000", s.Balance.NetWorth)
	}
	if s.Loans.TotalRemaining != 15000 || s.Loans.MonthlyPayments != 450 {
		t.Errorf("loans = %v/%v, want 15000/450", s.Loans.TotalRemaining, s.Loans.MonthlyPayments)
	}
	if s.Savings.TotalSaved != 4000 || s.Savings.TotalTarget != 10000 {
		t.Errorf("savings = %v/%v, want 4000/10000", s.Savings.TotalSaved, s.Savings.TotalTarget)
	}
	if s.Month != "2024-03" {
		t.Errorf("month = %q, want 2024-03", s.Month)
	}
}

func TestBuildSummary_NoBudget(t *testing.T) {
	s := BuildSummary("2024-03", nil, []*expense.Expense{exp(50, "Ruoka")}, nil, nil, nil)

	if s.Budget.Amount != 0 {
		t.Errorf("budget amount = %v, want 0", s.Budget.Amount)
	}
	if s.Budget.Percentage != 0 {
		t.Errorf("budget percentage with no budget = %v, want 0", s.Budget.Percentage)
	}
}

func TestBuildSummary_RecentCappedAtFive(t *testing.T) {
	var expenses []*expense.Expense
	for i := 0; i < 8; i++ {
		expenses = append(expenses, exp(float64(i+1), "Muut"))
	}

	s := BuildSummary("2024-03", nil, expenses, nil, nil, nil)

	if len(s.Expenses.Recent) != 5 {
		t.Fatalf("recent length = %d, want 5", len(s.Expenses.Recent))
	}
	// The slice order is preserved, so recent is the first five entries.
	if s.Expenses.Recent[0] != expenses[0] {
		t.Error("recent should start from the first entry of the input slice")
	}
	if s.Expenses.Count != 8 {
		t.Errorf("count = %d, want 8", s.Expenses.Count)
	}
}

func TestBuildSummary_EmptyRecentNotNil(t *testing.T) {
	s := BuildSummary("2024-03", nil, nil, nil, nil, nil)
	if s.Expenses.Recent == nil {
		t.Error("recent should be an empty slice, not nil")
	}
}

// Building a summary twice from the same inputs must yield identical
// results; the inputs must not be mutated.
func TestBuildSummary_Deterministic(t *testing.T) {
	b := &budget.Budget{Amount: 1000, Month: "2024-05"}
	expenses := []*expense.Expense{
		exp(120.45, "Ruoka"),
		exp(80.10, "Viihde"),
		exp(200, "Asuminen"),
	}
	incomes := []*income.Income{
		{Amount: 2000, Source: "salary"},
		{Amount: 150.55, Source: "other"},
	}

	first := BuildSummary("2024-05", b, expenses, incomes, nil, nil)
	second := BuildSummary("2024-05", b, expenses, incomes, nil, nil)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("summaries differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
