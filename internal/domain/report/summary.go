// Package report builds the dashboard summary. Everything here is a pure
// function over already-fetched slices: no storage access, no clock other
// than the month key passed in by the caller.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"lompakko/internal/domain/budget"
	"lompakko/internal/domain/expense"
	"lompakko/internal/domain/income"
	"lompakko/internal/domain/loan"
	"lompakko/internal/domain/savings"
)

// Usage levels for budget consumption, used by clients to pick the
// indicator color.
const (
	UsageGreen = "green"
	UsageAmber = "amber"
	UsageRed   = "red"
)

type CategoryTotal struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type SourceTotal struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type BudgetSummary struct {
	Amount     float64 `json:"amount"`
	Spent      float64 `json:"spent"`
	Percentage float64 `json:"percentage"`
	Remaining  float64 `json:"remaining"`
}

type IncomeSummary struct {
	Total   float64       `json:"total"`
	Count   int           `json:"count"`
	Sources []SourceTotal `json:"sources"`
}

type ExpenseSummary struct {
	Total      float64            `json:"total"`
	Count      int                `json:"count"`
	Recent     []*expense.Expense `json:"recent"`
	Categories []CategoryTotal    `json:"categories"`
}

type LoanSummary struct {
	TotalRemaining  float64 `json:"total_remaining"`
	MonthlyPayments float64 `json:"monthly_payments"`
	Count           int     `json:"count"`
}

type SavingsSummary struct {
	TotalSaved  float64 `json:"total_saved"`
	TotalTarget float64 `json:"total_target"`
	Count       int     `json:"count"`
}

type BalanceSummary struct {
	Remaining           float64 `json:"remaining"`
	RemainingPercentage float64 `json:"remaining_percentage"`
	NetWorth            float64 `json:"net_worth"`
}

// Summary is the nested dashboard payload served by /api/dashboard/summary.
type Summary struct {
	Budget   BudgetSummary  `json:"budget"`
	Income   IncomeSummary  `json:"income"`
	Expenses ExpenseSummary `json:"expenses"`
	Loans    LoanSummary    `json:"loans"`
	Savings  SavingsSummary `json:"savings"`
	Balance  BalanceSummary `json:"balance"`
	Month    string         `json:"month"`
}

// SumExpenses totals expense amounts. Decimal arithmetic avoids float
// drift when many small amounts accumulate.
func SumExpenses(expenses []*expense.Expense) float64 {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	f, _ := total.Float64()
	return f
}

// SumIncomes totals income amounts.
func SumIncomes(incomes []*income.Income) float64 {
	total := decimal.Zero
	for _, i := range incomes {
		total = total.Add(decimal.NewFromFloat(i.Amount))
	}
	f, _ := total.Float64()
	return f
}

// Percentage returns part/whole*100 rounded half-up to the given number
// of decimal places. A non-positive whole yields 0 rather than a division
// error.
func Percentage(part, whole float64, places int32) float64 {
	if whole <= 0 {
		return 0
	}
	p := decimal.NewFromFloat(part).
		Div(decimal.NewFromFloat(whole)).
		Mul(decimal.NewFromInt(100)).
		Round(places)
	f, _ := p.Float64()
	return f
}

// ClassifyUsage maps a budget consumption percentage to an indicator
// level: below 75 green, 75 up to (but not including) 100 amber, 100 and
// above red.
func ClassifyUsage(percentage float64) string {
	switch {
	case percentage >= 100:
		return UsageRed
	case percentage >= 75:
		return UsageAmber
	default:
		return UsageGreen
	}
}

// ExpenseCategories groups expenses by category with each group's share
// of the total, largest first.
func ExpenseCategories(expenses []*expense.Expense) []CategoryTotal {
	totals := map[string]decimal.Decimal{}
	for _, e := range expenses {
		cat := e.Category
		if cat == "" {
			cat = expense.DefaultCategory
		}
		totals[cat] = totals[cat].Add(decimal.NewFromFloat(e.Amount))
	}

	grand := decimal.Zero
	for _, amount := range totals {
		grand = grand.Add(amount)
	}
	grandF, _ := grand.Float64()

	result := make([]CategoryTotal, 0, len(totals))
	for name, amount := range totals {
		amountF, _ := amount.Float64()
		result = append(result, CategoryTotal{
			Name:       name,
			Amount:     amountF,
			Percentage: Percentage(amountF, grandF, 1),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Amount != result[j].Amount {
			return result[i].Amount > result[j].Amount
		}
		return result[i].Name < result[j].Name
	})

	return result
}

// IncomeSources groups incomes by source, labeled in Finnish, largest
// first.
func IncomeSources(incomes []*income.Income) []SourceTotal {
	totals := map[string]decimal.Decimal{}
	for _, in := range incomes {
		label := income.SourceLabel(in.Source)
		totals[label] = totals[label].Add(decimal.NewFromFloat(in.Amount))
	}

	result := make([]SourceTotal, 0, len(totals))
	for name, amount := range totals {
		amountF, _ := amount.Float64()
		result = append(result, SourceTotal{Name: name, Amount: amountF})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Amount != result[j].Amount {
			return result[i].Amount > result[j].Amount
		}
		return result[i].Name < result[j].Name
	})

	return result
}

// BuildSummary assembles the dashboard payload for one month. The expense
// slice is expected newest-first; the first five entries become the
// "recent" list.
func BuildSummary(
	month string,
	b *budget.Budget,
	expenses []*expense.Expense,
	incomes []*income.Income,
	loans []*loan.Loan,
	goals []*savings.Goal,
) Summary {
	totalExpenses := SumExpenses(expenses)
	totalIncome := SumIncomes(incomes)

	var budgetAmount float64
	if b != nil {
		budgetAmount = b.Amount
	}

	totalLoans := decimal.Zero
	monthlyPayments := decimal.Zero
	for _, l := range loans {
		totalLoans = totalLoans.Add(decimal.NewFromFloat(l.RemainingAmount))
		monthlyPayments = monthlyPayments.Add(decimal.NewFromFloat(l.MonthlyPayment))
	}
	totalLoansF, _ := totalLoans.Float64()
	monthlyPaymentsF, _ := monthlyPayments.Float64()

	totalSaved := decimal.Zero
	totalTarget := decimal.Zero
	for _, g := range goals {
		totalSaved = totalSaved.Add(decimal.NewFromFloat(g.CurrentAmount))
		totalTarget = totalTarget.Add(decimal.NewFromFloat(g.TargetAmount))
	}
	totalSavedF, _ := totalSaved.Float64()
	totalTargetF, _ := totalTarget.Float64()

	remaining, _ := decimal.NewFromFloat(totalIncome).
		Sub(decimal.NewFromFloat(totalExpenses)).
		Sub(monthlyPayments).
		Float64()

	netWorth, _ := totalSaved.Sub(totalLoans).Float64()

	recent := expenses
	if len(recent) > 5 {
		recent = recent[:5]
	}
	if recent == nil {
		recent = []*expense.Expense{}
	}

	budgetRemaining, _ := decimal.NewFromFloat(budgetAmount).
		Sub(decimal.NewFromFloat(totalExpenses)).
		Float64()

	return Summary{
		Budget: BudgetSummary{
			Amount:     budgetAmount,
			Spent:      totalExpenses,
			Percentage: Percentage(totalExpenses, budgetAmount, 1),
			Remaining:  budgetRemaining,
		},
		Income: IncomeSummary{
			Total:   totalIncome,
			Count:   len(incomes),
			Sources: IncomeSources(incomes),
		},
		Expenses: ExpenseSummary{
			Total:      totalExpenses,
			Count:      len(expenses),
			Recent:     recent,
			Categories: ExpenseCategories(expenses),
		},
		Loans: LoanSummary{
			TotalRemaining:  totalLoansF,
			MonthlyPayments: monthlyPaymentsF,
			Count:           len(loans),
		},
		Savings: SavingsSummary{
			TotalSaved:  totalSavedF,
			TotalTarget: totalTargetF,
			Count:       len(goals),
		},
		Balance: BalanceSummary{
			Remaining:           remaining,
			RemainingPercentage: Percentage(remaining, totalIncome, 0),
			NetWorth:            netWorth,
		},
		Month: month,
	}
}
