package outlook

import (
	"context"
	"fmt"
	"net/http"
)

// Contact represents someone sending or receiving an email.  Contacts
// have no server identity of their own; two contacts with the same
// email and name are the same contact.
type Contact struct {
	// Email is the address.  Always set for contacts produced by this
	// library.
	Email string

	// Name is the optional display name.
	Name string

	// Focused reports the sender's focused-inbox override: nil when
	// unknown, otherwise true for Focused and false for Other.  Only
	// meaningful on contacts retrieved as overrides or after
	// SetFocused.
	Focused *bool
}

func (c *Contact) String() string {
	if c.Name == "" {
		return c.Email
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Email)
}

// Recipient is either a bare email address or a full Contact.  It is
// resolved to a Contact once, at the API boundary.
type Recipient interface {
	asContact() *Contact
}

// Address is a plain email address usable wherever a Recipient is
// expected.
type Address string

func (a Address) asContact() *Contact { return &Contact{Email: string(a)} }

func (c *Contact) asContact() *Contact { return c }

// normalizeRecipients promotes every entry to a Contact.
func normalizeRecipients(recipients []Recipient) []*Contact {
	contacts := make([]*Contact, 0, len(recipients))
	for _, r := range recipients {
		contacts = append(contacts, r.asContact())
	}
	return contacts
}

// emailAddress is the wire shape shared by recipients, senders and
// override records.
type emailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// recipientJSON is the wire shape of one recipient entry.
type recipientJSON struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

func (c *Contact) wire() recipientJSON {
	return recipientJSON{EmailAddress: emailAddress{Name: c.Name, Address: c.Email}}
}

func wireRecipients(contacts []*Contact) []recipientJSON {
	out := make([]recipientJSON, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, c.wire())
	}
	return out
}

// contactJSON is the union of the two wire shapes a contact arrives in:
// a plain emailAddress object, or a senderEmailAddress plus
// classification for focused-inbox overrides.
type contactJSON struct {
	EmailAddress       *emailAddress `json:"emailAddress"`
	SenderEmailAddress *emailAddress `json:"senderEmailAddress"`
	ClassifyAs         string        `json:"classifyAs"`
}

// contactFromWire builds a Contact from either wire shape, preferring
// the plain one when both are present.  Entries without an address
// yield nil.
func contactFromWire(j contactJSON) *Contact {
	if j.EmailAddress != nil && j.EmailAddress.Address != "" {
		return &Contact{Email: j.EmailAddress.Address, Name: j.EmailAddress.Name}
	}
	if j.SenderEmailAddress != nil && j.SenderEmailAddress.Address != "" {
		focused := j.ClassifyAs == "Focused"
		return &Contact{
			Email:   j.SenderEmailAddress.Address,
			Name:    j.SenderEmailAddress.Name,
			Focused: &focused,
		}
	}
	return nil
}

// contactsFromWire converts a recipient list.  A malformed entry is
// skipped rather than aborting the whole list; partial data beats a
// total failure on a read path.
func contactsFromWire(list []contactJSON) []*Contact {
	contacts := make([]*Contact, 0, len(list))
	for _, j := range list {
		if c := contactFromWire(j); c != nil {
			contacts = append(contacts, c)
		}
	}
	return contacts
}

// SetFocused records an inference classification override for this
// sender: future mail from them is routed to the Focused section when
// focused is true, Other when false.
func (c *Contact) SetFocused(ctx context.Context, account *Account, focused bool) error {
	classification := "Other"
	if focused {
		classification = "Focused"
	}
	payload := map[string]interface{}{
		"classifyAs":         classification,
		"senderEmailAddress": map[string]string{"address": c.Email},
	}
	_, err := account.do(ctx, http.MethodPost, "/me/inferenceClassification/overrides", nil, payload)
	if err != nil {
		return err
	}
	c.Focused = &focused
	return nil
}
