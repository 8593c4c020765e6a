package outlook

import (
	"context"
	"net/http"
)

// ContactService owns the network calls and wire conversion for
// contacts and focused-inbox overrides.
type ContactService struct {
	account *Account
}

// Overrides lists the senders with a focused-inbox classification
// override.  Each returned contact has Focused set.
func (s *ContactService) Overrides(ctx context.Context) ([]*Contact, error) {
	body, err := s.account.do(ctx, http.MethodGet, "/me/inferenceClassification/overrides", nil, nil)
	if err != nil {
		return nil, err
	}
	var list struct {
		Value []contactJSON `json:"value"`
	}
	if err := decode(body, &list); err != nil {
		return nil, err
	}
	return contactsFromWire(list.Value), nil
}
