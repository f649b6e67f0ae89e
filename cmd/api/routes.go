package main

import (
	"net/http"

	httphandlers "lompakko/internal/interfaces/http"
	"lompakko/internal/shared/config"
	"lompakko/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler
// with middleware applied.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check and public metadata
	mux.HandleFunc("/health", httphandlers.HandleHealth)
	mux.HandleFunc("/api/categories", httphandlers.HandleCategories)

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)

	// Provider webhook (authenticated by the provider, not a user)
	mux.HandleFunc("/api/payments/webhook", deps.PaymentHandler.HandleWebhook)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	mux.Handle("/api/auth/me", protected(deps.AuthHandler.HandleMe))

	mux.Handle("/api/budgets", protected(deps.BudgetHandler.HandleBudgets))
	mux.Handle("/api/budgets/current", protected(deps.BudgetHandler.HandleCurrentBudget))

	mux.Handle("/api/expenses", protected(deps.ExpenseHandler.HandleExpenses))
	mux.Handle("/api/expenses/{id}", protected(deps.ExpenseHandler.HandleExpenseByID))

	mux.Handle("/api/incomes", protected(deps.IncomeHandler.HandleIncomes))
	mux.Handle("/api/incomes/{id}", protected(deps.IncomeHandler.HandleIncomeByID))

	mux.Handle("/api/loans", protected(deps.LoanHandler.HandleLoans))
	mux.Handle("/api/loans/{id}", protected(deps.LoanHandler.HandleLoanByID))

	mux.Handle("/api/savings", protected(deps.SavingsHandler.HandleSavingsGoals))
	mux.Handle("/api/savings/{id}", protected(deps.SavingsHandler.HandleSavingsGoalByID))

	mux.Handle("/api/dashboard/summary", protected(deps.DashboardHandler.HandleSummary))

	mux.Handle("/api/payments/checkout", protected(deps.PaymentHandler.HandleCheckout))
	mux.Handle("/api/payments/status/{session_id}", protected(deps.PaymentHandler.HandleStatus))

	mux.Handle("/api/banks/finland", protected(deps.BankHandler.HandleInstitutions))
	mux.Handle("/api/banks/connect", protected(deps.BankHandler.HandleConnect))
	mux.Handle("/api/banks/connections", protected(deps.BankHandler.HandleConnections))
	mux.Handle("/api/banks/connection/{id}", protected(deps.BankHandler.HandleConnectionByID))
	mux.Handle("/api/banks/connection/{id}/accounts", protected(deps.BankHandler.HandleAccounts))
	mux.Handle("/api/banks/import-transactions/{account_id}", protected(deps.BankHandler.HandleImport))

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux))
	handler = middleware.Telemetry(handler)

	return handler
}
