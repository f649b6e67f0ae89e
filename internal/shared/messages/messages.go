// Package messages holds the Finnish user-facing strings returned in API
// error details and confirmations. Kept in one place so handlers stay free
// of literal copy and the texts can be reviewed together.
package messages

import "fmt"

const (
	AuthRequired       = "Kirjautuminen vaaditaan"
	InvalidCredentials = "Virheellinen sähköposti tai salasana"
	EmailTaken         = "Sähköposti on jo käytössä"
	TokenExpired       = "Token vanhentunut"
	TokenInvalid       = "Virheellinen token"
	UserNotFound       = "Käyttäjää ei löydy"

	ExpenseNotFound = "Kulua ei löydy"
	ExpenseDeleted  = "Kulu poistettu"
	IncomeNotFound  = "Tuloa ei löydy"
	IncomeDeleted   = "Tulo poistettu"
	LoanNotFound    = "Lainaa ei löydy"
	LoanDeleted     = "Laina poistettu"
	SavingsNotFound = "Säästötavoitetta ei löydy"
	SavingsDeleted  = "Säästötavoite poistettu"

	CheckoutFailed      = "Maksun luominen epäonnistui"
	PaymentStatusFailed = "Maksun tilan tarkistus epäonnistui"

	// BankNotConfigured intentionally contains the English marker
	// "not configured": clients detect the aggregator setup error by
	// matching that substring in the detail text.
	BankNotConfigured  = "Nordigen API not configured"
	BankConnectFailed  = "Pankkiyhteyden luonti epäonnistui"
	BankAccountsFailed = "Tilien haku epäonnistui"
	BankImportFailed   = "Tapahtumien tuonti epäonnistui"
	ConnectionNotFound = "Pankkiyhteyttä ei löydy"
)

// ImportedTransactions formats the confirmation shown after a one-shot
// transaction import.
func ImportedTransactions(n int) string {
	return fmt.Sprintf("%d tapahtumaa tuotu", n)
}
