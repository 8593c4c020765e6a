package outlook

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactServiceOverrides(t *testing.T) {
	rec := &recorder{response: `{"value": [
		{"classifyAs": "Focused", "senderEmailAddress": {"address": "keep@example.com"}},
		{"classifyAs": "Other", "senderEmailAddress": {"address": "mute@example.com"}},
		{"classifyAs": "Other", "senderEmailAddress": {"name": "broken entry"}}
	]}`}
	account := testAccount(t, rec)

	overrides, err := account.Contacts.Overrides(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/me/inferenceClassification/overrides", rec.lastPath)
	require.Len(t, overrides, 2, "the malformed entry is skipped")
	require.NotNil(t, overrides[0].Focused)
	assert.True(t, *overrides[0].Focused)
	require.NotNil(t, overrides[1].Focused)
	assert.False(t, *overrides[1].Focused)
}

func TestContactSetFocused(t *testing.T) {
	rec := &recorder{status: http.StatusCreated, response: `{}`}
	account := testAccount(t, rec)

	contact := &Contact{Email: "boss@example.com", Name: "Boss"}
	require.NoError(t, contact.SetFocused(context.Background(), account, true))

	assert.Equal(t, http.MethodPost, rec.lastMethod)
	assert.Equal(t, "/me/inferenceClassification/overrides", rec.lastPath)
	assert.JSONEq(t, `{
		"classifyAs": "Focused",
		"senderEmailAddress": {"address": "boss@example.com"}
	}`, string(rec.lastBody))
	require.NotNil(t, contact.Focused)
	assert.True(t, *contact.Focused)
}

func TestContactSetFocusedFailurePropagates(t *testing.T) {
	rec := &recorder{status: http.StatusUnauthorized, response: `{"error": "expired"}`}
	account := testAccount(t, rec)

	contact := &Contact{Email: "boss@example.com"}
	err := contact.SetFocused(context.Background(), account, false)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Nil(t, contact.Focused, "a failed call must not change local state")
}
