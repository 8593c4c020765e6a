package outlook

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecipientNormalizationIdempotence(t *testing.T) {
	fromString, err := json.Marshal(wireRecipients(normalizeRecipients([]Recipient{Address("a@x.com")})))
	if err != nil {
		t.Fatal(err)
	}
	fromContact, err := json.Marshal(wireRecipients(normalizeRecipients([]Recipient{&Contact{Email: "a@x.com"}})))
	if err != nil {
		t.Fatal(err)
	}
	if string(fromString) != string(fromContact) {
		t.Errorf("recipient JSON differs:\n string: %s\ncontact: %s", fromString, fromContact)
	}
}

func TestContactWireShape(t *testing.T) {
	c := &Contact{Email: "user@example.com", Name: "User"}
	got, err := json.Marshal(c.wire())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"emailAddress":{"name":"User","address":"user@example.com"}}`
	if string(got) != want {
		t.Errorf("wire form = %s, want %s", got, want)
	}
}

func TestContactsFromWireSkipsMalformedEntries(t *testing.T) {
	raw := `[
		{"emailAddress": {"address": "good@example.com", "name": "Good"}},
		{"emailAddress": {"name": "No Address"}}
	]`
	var list []contactJSON
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		t.Fatal(err)
	}

	contacts := contactsFromWire(list)
	want := []*Contact{{Email: "good@example.com", Name: "Good"}}
	if diff := cmp.Diff(want, contacts); diff != "" {
		t.Errorf("contactsFromWire mismatch (-want +got):\n%s", diff)
	}
}

func TestContactFromWirePrefersPlainShape(t *testing.T) {
	j := contactJSON{
		EmailAddress:       &emailAddress{Address: "plain@example.com", Name: "Plain"},
		SenderEmailAddress: &emailAddress{Address: "override@example.com"},
		ClassifyAs:         "Focused",
	}
	c := contactFromWire(j)
	if c == nil {
		t.Fatal("contactFromWire = nil")
	}
	if c.Email != "plain@example.com" {
		t.Errorf("Email = %q, want the plain shape's address", c.Email)
	}
	if c.Focused != nil {
		t.Error("Focused must stay unknown when the plain shape wins")
	}
}

func TestContactFromWireOverrideShape(t *testing.T) {
	cases := []struct {
		classifyAs string
		want       bool
	}{
		{"Focused", true},
		{"Other", false},
		{"", false},
	}
	for _, tc := range cases {
		j := contactJSON{
			SenderEmailAddress: &emailAddress{Address: "sender@example.com", Name: "Sender"},
			ClassifyAs:         tc.classifyAs,
		}
		c := contactFromWire(j)
		if c == nil {
			t.Fatalf("contactFromWire(classifyAs=%q) = nil", tc.classifyAs)
		}
		if c.Focused == nil || *c.Focused != tc.want {
			t.Errorf("classifyAs=%q: Focused = %v, want %v", tc.classifyAs, c.Focused, tc.want)
		}
	}
}

func TestContactString(t *testing.T) {
	cases := []struct {
		contact Contact
		want    string
	}{
		{Contact{Email: "a@x.com"}, "a@x.com"},
		{Contact{Email: "a@x.com", Name: "A"}, "A (a@x.com)"},
	}
	for _, tc := range cases {
		if got := tc.contact.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
