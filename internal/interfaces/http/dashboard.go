package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"lompakko/internal/domain/budget"
	"lompakko/internal/domain/expense"
	"lompakko/internal/domain/income"
	"lompakko/internal/domain/loan"
	"lompakko/internal/domain/report"
	"lompakko/internal/domain/savings"
	"lompakko/internal/shared/messages"
	"lompakko/internal/shared/middleware"
)

// DashboardHandler assembles the monthly summary from all record types
type DashboardHandler struct {
	budgets  budget.Repository
	expenses expense.Repository
	incomes  income.Repository
	loans    loan.Repository
	goals    savings.Repository
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	budgets budget.Repository,
	expenses expense.Repository,
	incomes income.Repository,
	loans loan.Repository,
	goals savings.Repository,
) *DashboardHandler {
	return &DashboardHandler{
		budgets:  budgets,
		expenses: expenses,
		incomes:  incomes,
		loans:    loans,
		goals:    goals,
	}
}

// HandleSummary returns the dashboard summary for one month. The five
// record types are fetched concurrently; the aggregation itself is pure.
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = budget.CurrentMonth(time.Now())
	}
	if !budget.IsValidMonth(month) {
		writeError(w, http.StatusBadRequest, budget.ErrInvalidMonth.Error())
		return
	}

	var (
		monthBudget *budget.Budget
		expenseList []*expense.Expense
		incomeList  []*income.Income
		loanList    []*loan.Loan
		goalList    []*savings.Goal
	)

	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		b, err := h.budgets.GetByMonth(ctx, userID, month)
		if errors.Is(err, budget.ErrNotFound) {
			// No budget set for the month is a valid state.
			return nil
		}
		monthBudget = b
		return err
	})
	g.Go(func() error {
		var err error
		expenseList, err = h.expenses.ListByUserID(ctx, userID, month)
		return err
	})
	g.Go(func() error {
		var err error
		incomeList, err = h.incomes.ListByUserID(ctx, userID, month)
		return err
	})
	g.Go(func() error {
		var err error
		loanList, err = h.loans.ListByUserID(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		goalList, err = h.goals.ListByUserID(ctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Printf("Error building summary for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Yhteenvedon haku epäonnistui")
		return
	}

	summary := report.BuildSummary(month, monthBudget, expenseList, incomeList, loanList, goalList)
	writeJSON(w, http.StatusOK, summary)
}
