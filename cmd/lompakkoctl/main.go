package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"lompakko/internal/client"
	"lompakko/internal/domain/report"
)

const usage = `lompakkoctl - Command line client for the Lompakko API

Usage:
  lompakkoctl <command> [options]

Commands:
  register      Create an account and log in
  login         Log in and store the session token
  logout        Discard the stored session token
  me            Show the authenticated user's profile
  summary       Show the dashboard summary for a month
  checkout      Start a subscription checkout
  confirm       Poll a checkout session until the payment settles
  banks         List banks available for connection
  connect       Start linking a bank account
  connections   List bank connections
  accounts      List accounts of a linked connection
  import        Import debit transactions from a linked account

Environment:
  LOMPAKKO_API_URL   API base URL (default http://localhost:8080)

Examples:
  lompakkoctl login --email=a@example.fi --password=...
  lompakkoctl summary --month=2024-03
  lompakkoctl confirm --session-id=cs_123
  lompakkoctl connect --institution=NORDEA_NDEAFIHH --name=Nordea
  lompakkoctl import --account=<id>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	c, err := newClient()
	if err != nil {
		log.Fatalf("Failed to initialize client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "register":
		runRegister(ctx, c, args)
	case "login":
		runLogin(ctx, c, args)
	case "logout":
		runLogout(c)
	case "me":
		runMe(ctx, c)
	case "summary":
		runSummary(ctx, c, args)
	case "checkout":
		runCheckout(ctx, c, args)
	case "confirm":
		runConfirm(ctx, c, args)
	case "banks":
		runBanks(ctx, c)
	case "connect":
		runConnect(ctx, c, args)
	case "connections":
		runConnections(ctx, c)
	case "accounts":
		runAccounts(ctx, c, args)
	case "import":
		runImport(ctx, c, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func newClient() (*client.Client, error) {
	baseURL := os.Getenv("LOMPAKKO_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	tokens, err := client.NewFileTokenStore()
	if err != nil {
		return nil, err
	}
	return client.New(baseURL, tokens), nil
}

func runRegister(ctx context.Context, c *client.Client, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	name := fs.String("name", "", "Display name")
	password := fs.String("password", "", "Password (at least 6 characters)")
	fs.Parse(args)

	if *email == "" || *name == "" || *password == "" {
		fmt.Println("Error: --email, --name and --password are required")
		os.Exit(1)
	}

	u, err := c.Register(ctx, *email, *name, *password)
	if err != nil {
		log.Fatalf("Registration failed: %v", err)
	}
	fmt.Printf("Registered and logged in as %s (%s)\n", u.Name, u.Email)
}

func runLogin(ctx context.Context, c *client.Client, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: --email and --password are required")
		os.Exit(1)
	}

	u, err := c.Login(ctx, *email, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	fmt.Printf("Logged in as %s (%s)\n", u.Name, u.Email)
}

func runLogout(c *client.Client) {
	if err := c.Logout(); err != nil {
		log.Fatalf("Logout failed: %v", err)
	}
	fmt.Println("Logged out")
}

func runMe(ctx context.Context, c *client.Client) {
	u, err := c.Me(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch profile: %v", err)
	}

	fmt.Printf("Name:         %s\n", u.Name)
	fmt.Printf("Email:        %s\n", u.Email)
	fmt.Printf("Subscription: %s\n", subscriptionLine(u.SubscriptionActive, u.SubscriptionEnd))
}

func subscriptionLine(active bool, end *time.Time) string {
	if !active {
		return "inactive"
	}
	if end != nil {
		return fmt.Sprintf("active until %s", end.Format("2006-01-02"))
	}
	return "active"
}

func runSummary(ctx context.Context, c *client.Client, args []string) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	month := fs.String("month", "", "Month to summarize (YYYY-MM, default current)")
	fs.Parse(args)

	s, err := c.Summary(ctx, *month)
	if err != nil {
		log.Fatalf("Failed to fetch summary: %v", err)
	}

	fmt.Printf("=== %s ===\n", s.Month)
	fmt.Printf("Budget:    %.2f (%.1f%% used, %s)\n", s.Budget.Amount, s.Budget.Percentage, report.ClassifyUsage(s.Budget.Percentage))
	fmt.Printf("Income:    %.2f\n", s.Income.Total)
	fmt.Printf("Expenses:  %.2f (%d entries)\n", s.Expenses.Total, s.Expenses.Count)
	fmt.Printf("Remaining: %.2f\n", s.Balance.Remaining)
	fmt.Printf("Net worth: %.2f\n", s.Balance.NetWorth)

	if len(s.Expenses.Categories) > 0 {
		fmt.Println("\nExpenses by category:")
		for _, cat := range s.Expenses.Categories {
			fmt.Printf("  %-12s %10.2f (%.1f%%)\n", cat.Name, cat.Amount, cat.Percentage)
		}
	}
}

func runCheckout(ctx context.Context, c *client.Client, args []string) {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	origin := fs.String("origin", "http://localhost:8080", "Origin URL the provider returns to")
	fs.Parse(args)

	session, err := c.Checkout(ctx, *origin)
	if err != nil {
		log.Fatalf("Checkout failed: %v", err)
	}

	fmt.Println("Open the checkout in your browser:")
	fmt.Println("  " + session.URL)
	fmt.Printf("\nThen run: lompakkoctl confirm --session-id=%s\n", session.SessionID)
}

func runConfirm(ctx context.Context, c *client.Client, args []string) {
	fs := flag.NewFlagSet("confirm", flag.ExitOnError)
	sessionID := fs.String("session-id", "", "Checkout session id")
	fs.Parse(args)

	fmt.Println("Waiting for payment confirmation...")
	result, err := c.ConfirmPayment(ctx, *sessionID)
	if err != nil {
		log.Fatalf("Payment not confirmed after %d attempts: %v", result.Attempts, err)
	}

	fmt.Printf("Payment confirmed after %d attempt(s)\n", result.Attempts)
	if result.User != nil {
		fmt.Printf("Subscription: %s\n", subscriptionLine(result.User.SubscriptionActive, result.User.SubscriptionEnd))
	}
}

func runBanks(ctx context.Context, c *client.Client) {
	institutions, err := c.Institutions(ctx)
	if err != nil {
		exitBankError(err)
	}

	for _, inst := range institutions {
		fmt.Printf("%-30s %s\n", inst.ID, inst.Name)
	}
}

func runConnect(ctx context.Context, c *client.Client, args []string) {
	fs := flag.NewFlagSet("connect", flag.ExitOnError)
	institution := fs.String("institution", "", "Institution id (see 'banks')")
	name := fs.String("name", "", "Institution display name")
	callback := fs.String("callback", "http://localhost:8080/banks", "Callback URL after bank authorization")
	fs.Parse(args)

	if *institution == "" {
		fmt.Println("Error: --institution is required")
		os.Exit(1)
	}

	result, err := c.StartBankLink(ctx, *institution, *name, *callback)
	if err != nil {
		exitBankError(err)
	}

	fmt.Println("Authorize the connection in your browser:")
	fmt.Println("  " + result.Link)
	fmt.Println("\nAfterwards run 'lompakkoctl connections' to see its status.")
}

func runConnections(ctx context.Context, c *client.Client) {
	connections, err := c.Connections(ctx)
	if err != nil {
		exitBankError(err)
	}

	if len(connections) == 0 {
		fmt.Println("No bank connections")
		return
	}
	for _, conn := range connections {
		fmt.Printf("%-36s %-20s %s\n", conn.ID, conn.InstitutionName, conn.Status)
	}
}

func runAccounts(ctx context.Context, c *client.Client, args []string) {
	fs := flag.NewFlagSet("accounts", flag.ExitOnError)
	connection := fs.String("connection", "", "Connection id (see 'connections')")
	fs.Parse(args)

	if *connection == "" {
		fmt.Println("Error: --connection is required")
		os.Exit(1)
	}

	accounts, err := c.Accounts(ctx, *connection)
	if err != nil {
		exitBankError(err)
	}

	for _, acc := range accounts {
		fmt.Printf("%-36s %-20s %s\n", acc.ID, acc.IBAN, acc.Name)
	}
}

func runImport(ctx context.Context, c *client.Client, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	account := fs.String("account", "", "Account id (see 'accounts')")
	fs.Parse(args)

	if *account == "" {
		fmt.Println("Error: --account is required")
		os.Exit(1)
	}

	result, err := c.ImportTransactions(ctx, *account)
	if err != nil {
		exitBankError(err)
	}

	fmt.Println(result.Message)
}

func exitBankError(err error) {
	if client.IsNotConfigured(err) {
		fmt.Println("Open banking is not configured on the server.")
		fmt.Println("Set NORDIGEN_SECRET_ID and NORDIGEN_SECRET_KEY and restart the API.")
		os.Exit(1)
	}
	log.Fatalf("Request failed: %v", err)
}
