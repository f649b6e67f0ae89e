package client

import (
	"context"
	"fmt"
	"net/url"

	"lompakko/internal/domain/bank"
)

// RedirectURLWithRef builds the URL the aggregator sends the user back
// to after bank authorization, tagged with a ref query parameter so
// the callback can be recognized.
func RedirectURLWithRef(base, institutionID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URL: %w", err)
	}

	q := u.Query()
	q.Set("ref", institutionID)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// CallbackRef extracts the ref parameter from a callback URL. Only
// presence is checked; the connection's real status comes from the
// connections listing afterwards.
func CallbackRef(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	ref := u.Query().Get("ref")
	return ref, ref != ""
}

// StartBankLink initiates a bank connection: it registers the
// requisition and returns the hosted authorization link the user must
// visit. callbackBase is the page the bank redirects back to.
func (c *Client) StartBankLink(ctx context.Context, institutionID, institutionName, callbackBase string) (*bank.ConnectResult, error) {
	redirectURL, err := RedirectURLWithRef(callbackBase, institutionID)
	if err != nil {
		return nil, err
	}
	return c.ConnectBank(ctx, institutionID, institutionName, redirectURL)
}
