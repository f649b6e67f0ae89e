package main

import (
	"log"

	"lompakko/internal/domain/bank"
	"lompakko/internal/domain/payment"
	checkoutclient "lompakko/internal/infrastructure/checkout"
	"lompakko/internal/infrastructure/nordigen"
	"lompakko/internal/infrastructure/postgres"
	httphandlers "lompakko/internal/interfaces/http"
	"lompakko/internal/shared/auth"
	"lompakko/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler      *httphandlers.AuthHandler
	BudgetHandler    *httphandlers.BudgetHandler
	ExpenseHandler   *httphandlers.ExpenseHandler
	IncomeHandler    *httphandlers.IncomeHandler
	LoanHandler      *httphandlers.LoanHandler
	SavingsHandler   *httphandlers.SavingsHandler
	DashboardHandler *httphandlers.DashboardHandler
	PaymentHandler   *httphandlers.PaymentHandler
	BankHandler      *httphandlers.BankHandler

	// Auth
	JWT *auth.JWT

	// Repositories (for the scheduler)
	UserRepo *postgres.UserRepository
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize repositories on the traced DB wrapper so every query
	// carries a span
	userRepo := postgres.NewUserRepository(db)
	budgetRepo := postgres.NewBudgetRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)
	incomeRepo := postgres.NewIncomeRepository(db)
	loanRepo := postgres.NewLoanRepository(db)
	savingsRepo := postgres.NewSavingsRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	bankRepo := postgres.NewBankRepository(db)

	// Checkout provider (nil when no API key; payment endpoints then
	// report a setup error)
	var checkoutProvider payment.CheckoutProvider
	if cfg.Checkout.APIKey != "" {
		checkoutProvider = checkoutclient.NewClient(cfg.Checkout.APIKey)
	} else {
		log.Println("Checkout provider is not configured")
	}
	paymentService := payment.NewService(paymentRepo, checkoutProvider, userRepo)

	// Open-banking aggregator (nil when credentials are missing; bank
	// endpoints then report a setup error)
	var aggregator bank.Aggregator
	if cfg.Nordigen.Configured() {
		aggregator = nordigen.NewClient(cfg.Nordigen.SecretID, cfg.Nordigen.SecretKey)
	} else {
		log.Println("Nordigen aggregator is not configured")
	}
	bankService := bank.NewService(bankRepo, expenseRepo, aggregator)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret)

	// Initialize handlers
	return &Dependencies{
		DB:               db,
		AuthHandler:      httphandlers.NewAuthHandler(userRepo, jwt),
		BudgetHandler:    httphandlers.NewBudgetHandler(budgetRepo),
		ExpenseHandler:   httphandlers.NewExpenseHandler(expenseRepo),
		IncomeHandler:    httphandlers.NewIncomeHandler(incomeRepo),
		LoanHandler:      httphandlers.NewLoanHandler(loanRepo),
		SavingsHandler:   httphandlers.NewSavingsHandler(savingsRepo),
		DashboardHandler: httphandlers.NewDashboardHandler(budgetRepo, expenseRepo, incomeRepo, loanRepo, savingsRepo),
		PaymentHandler:   httphandlers.NewPaymentHandler(paymentService),
		BankHandler:      httphandlers.NewBankHandler(bankService),
		JWT:              jwt,
		UserRepo:         userRepo,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
