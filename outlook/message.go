// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package outlook

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Importance is a message's importance level.  Its ordinal is the wire
// form in outgoing payloads.
type Importance int

const (
	ImportanceLow Importance = iota
	ImportanceNormal
	ImportanceHigh
)

// BodyType selects how a message body is interpreted.
type BodyType string

const (
	BodyTypeHTML BodyType = "HTML"
	BodyTypeText BodyType = "Text"
)

// Message represents one email.  A Message is constructed either bare,
// to be populated and sent (ID is empty until the send succeeds), or by
// a service from a server response, fully populated.
type Message struct {
	account *Account

	// ID is the opaque server-assigned identity.  Empty for a message
	// that does not yet exist on the server.
	ID string

	Subject     string
	Body        string
	ContentType BodyType

	// BodyPreview is server-derived, roughly the first 255 characters
	// of the body.
	BodyPreview string

	Sender *Contact
	To     []*Contact
	CC     []*Contact
	BCC    []*Contact

	IsRead     bool
	IsDraft    bool
	Importance Importance

	// Focused reports the message's focused-inbox classification.
	Focused bool

	// Categories holds the message's labels in server order.
	// Duplicates are kept if the server allows them.
	Categories []string

	TimeCreated time.Time
	TimeSent    time.Time

	ParentFolderID string

	hasAttachments     bool
	attachments        []*Attachment
	attachmentsFetched bool

	parentFolder        *Folder
	parentFolderFetched bool
}

func (m *Message) String() string { return m.Subject }

// requireID guards operations that target the message on the server.
func (m *Message) requireID(op string) error {
	if m.ID == "" {
		return miscErrorf("cannot %s a message that has not been sent or retrieved", op)
	}
	return nil
}

func (m *Message) path(suffix string) string {
	p := "/me/messages/" + url.PathEscape(m.ID)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

// AddTo appends recipients to the To line, promoting bare addresses to
// contacts immediately.
func (m *Message) AddTo(recipients ...Recipient) *Message {
	m.To = append(m.To, normalizeRecipients(recipients)...)
	return m
}

// AddCC appends recipients to the CC line.
func (m *Message) AddCC(recipients ...Recipient) *Message {
	m.CC = append(m.CC, normalizeRecipients(recipients)...)
	return m
}

// AddBCC appends recipients to the BCC line.
func (m *Message) AddBCC(recipients ...Recipient) *Message {
	m.BCC = append(m.BCC, normalizeRecipients(recipients)...)
	return m
}

// Attach adds an outgoing attachment.  The name is sanitized for use as
// a filename.
func (m *Message) Attach(content []byte, name string) {
	m.attachments = append(m.attachments, &Attachment{
		Name:  validFilename(name),
		Bytes: content,
	})
	m.hasAttachments = true
	m.attachmentsFetched = true
}

// Send submits the message.  A message without To recipients fails
// locally; no request is made.
func (m *Message) Send(ctx context.Context) error {
	return m.account.Messages.Send(ctx, m)
}

// Reply sends a reply to the message's sender.
func (m *Message) Reply(ctx context.Context, comment string) error {
	if err := m.requireID("reply to"); err != nil {
		return err
	}
	_, err := m.account.do(ctx, http.MethodPost, m.path("reply"),
		nil, map[string]string{"comment": comment})
	return err
}

// ReplyAll sends a reply to the sender and every recipient.
func (m *Message) ReplyAll(ctx context.Context, comment string) error {
	if err := m.requireID("reply to"); err != nil {
		return err
	}
	_, err := m.account.do(ctx, http.MethodPost, m.path("replyAll"),
		nil, map[string]string{"comment": comment})
	return err
}

// Forward forwards the message.  Recipients may be bare addresses or
// contacts.
func (m *Message) Forward(ctx context.Context, comment string, recipients ...Recipient) error {
	if err := m.requireID("forward"); err != nil {
		return err
	}
	payload := struct {
		Comment      string          `json:"comment,omitempty"`
		ToRecipients []recipientJSON `json:"toRecipients"`
	}{
		Comment:      comment,
		ToRecipients: wireRecipients(normalizeRecipients(recipients)),
	}
	_, err := m.account.do(ctx, http.MethodPost, m.path("forward"), nil, payload)
	return err
}

// Delete removes the message from the mailbox.  The server-side
// identity becomes permanently unusable; the local value is left as-is.
func (m *Message) Delete(ctx context.Context) error {
	if err := m.requireID("delete"); err != nil {
		return err
	}
	_, err := m.account.do(ctx, http.MethodDelete, m.path(""), nil, nil)
	return err
}

// MoveTo moves the message into the destination folder.  The server may
// assign the message a new identity, in which case ID is updated.
func (m *Message) MoveTo(ctx context.Context, destination FolderRef) error {
	if err := m.requireID("move"); err != nil {
		return err
	}
	body, err := m.account.do(ctx, http.MethodPost, m.path("move"),
		nil, map[string]string{"destinationId": destination.folderRef()})
	if err != nil {
		return err
	}
	var moved struct {
		ID string `json:"id"`
	}
	if err := decode(body, &moved); err == nil && moved.ID != "" {
		m.ID = moved.ID
	}
	return nil
}

// MoveToInbox moves the message to the Inbox folder.
func (m *Message) MoveToInbox(ctx context.Context) error { return m.MoveTo(ctx, FolderInbox) }

// MoveToDrafts moves the message to the Drafts folder.
func (m *Message) MoveToDrafts(ctx context.Context) error { return m.MoveTo(ctx, FolderDrafts) }

// MoveToDeleted moves the message to the Deleted Items folder.
func (m *Message) MoveToDeleted(ctx context.Context) error { return m.MoveTo(ctx, FolderDeletedItems) }

// CopyTo copies the message into the destination folder.
func (m *Message) CopyTo(ctx context.Context, destination FolderRef) error {
	if err := m.requireID("copy"); err != nil {
		return err
	}
	_, err := m.account.do(ctx, http.MethodPost, m.path("copy"),
		nil, map[string]string{"destinationId": destination.folderRef()})
	return err
}

// CopyToInbox copies the message to the Inbox folder.
func (m *Message) CopyToInbox(ctx context.Context) error { return m.CopyTo(ctx, FolderInbox) }

// CopyToDrafts copies the message to the Drafts folder.
func (m *Message) CopyToDrafts(ctx context.Context) error { return m.CopyTo(ctx, FolderDrafts) }

// CopyToDeleted copies the message to the Deleted Items folder.
func (m *Message) CopyToDeleted(ctx context.Context) error { return m.CopyTo(ctx, FolderDeletedItems) }

// SetReadStatus marks the message read or unread.
func (m *Message) SetReadStatus(ctx context.Context, isRead bool) error {
	if err := m.requireID("update"); err != nil {
		return err
	}
	_, err := m.account.do(ctx, http.MethodPatch, m.path(""),
		nil, map[string]bool{"isRead": isRead})
	if err != nil {
		return err
	}
	m.IsRead = isRead
	return nil
}

// SetFocused moves the message to the Focused or Other section of the
// inbox.
func (m *Message) SetFocused(ctx context.Context, focused bool) error {
	if err := m.requireID("update"); err != nil {
		return err
	}
	classification := "Other"
	if focused {
		classification = "Focused"
	}
	_, err := m.account.do(ctx, http.MethodPatch, m.path(""),
		nil, map[string]string{"inferenceClassification": classification})
	if err != nil {
		return err
	}
	m.Focused = focused
	return nil
}

// AddCategory adds a category to the message.  The list is sent as
// held; the server decides whether duplicates are allowed.
func (m *Message) AddCategory(ctx context.Context, category string) error {
	if err := m.requireID("update"); err != nil {
		return err
	}
	m.Categories = append(m.Categories, category)
	_, err := m.account.do(ctx, http.MethodPatch, m.path(""),
		nil, map[string][]string{"categories": m.Categories})
	return err
}

// Attachments returns the message's attachments, fetching them from the
// server on first access when the message was retrieved with
// attachments present.  The result is cached for the lifetime of this
// instance and never invalidated; re-fetch the message for freshness.
func (m *Message) Attachments(ctx context.Context) ([]*Attachment, error) {
	if !m.hasAttachments {
		return []*Attachment{}, nil
	}
	if m.attachmentsFetched {
		return m.attachments, nil
	}
	if err := m.requireID("fetch attachments for"); err != nil {
		return nil, err
	}

	body, err := m.account.do(ctx, http.MethodGet, m.path("attachments"), nil, nil)
	if err != nil {
		return nil, err
	}
	var list struct {
		Value []attachmentJSON `json:"value"`
	}
	if err := decode(body, &list); err != nil {
		return nil, err
	}
	attachments := make([]*Attachment, 0, len(list.Value))
	for _, j := range list.Value {
		a, err := attachmentFromWire(j)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	m.attachments = attachments
	m.attachmentsFetched = true
	return m.attachments, nil
}

// ParentFolder resolves the folder containing this message.  Resolved
// once per instance and cached; nil for a message without a parent
// folder id.
func (m *Message) ParentFolder(ctx context.Context) (*Folder, error) {
	if m.parentFolderFetched {
		return m.parentFolder, nil
	}
	if m.ParentFolderID == "" {
		return nil, nil
	}
	folder, err := m.account.Folders.Get(ctx, m.ParentFolderID)
	if err != nil {
		return nil, err
	}
	m.parentFolder = folder
	m.parentFolderFetched = true
	return m.parentFolder, nil
}

// bodyJSON is the wire shape of a message body.
type bodyJSON struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// messagePayload is the outgoing wire shape of a message.
type messagePayload struct {
	Subject       string           `json:"subject"`
	Body          bodyJSON         `json:"body"`
	From          *recipientJSON   `json:"from,omitempty"`
	ToRecipients  []recipientJSON  `json:"toRecipients"`
	CcRecipients  []recipientJSON  `json:"ccRecipients,omitempty"`
	BccRecipients []recipientJSON  `json:"bccRecipients,omitempty"`
	Attachments   []attachmentJSON `json:"attachments,omitempty"`
	Importance    int              `json:"importance"`
	Categories    []string         `json:"categories,omitempty"`
}

func (m *Message) wirePayload() messagePayload {
	contentType := m.ContentType
	if contentType == "" {
		contentType = BodyTypeHTML
	}
	payload := messagePayload{
		Subject: m.Subject,
		Body: bodyJSON{
			ContentType: string(contentType),
			Content:     m.Body,
		},
		ToRecipients: wireRecipients(m.To),
		Importance:   int(m.Importance),
		Categories:   m.Categories,
	}
	if m.Sender != nil {
		from := m.Sender.wire()
		payload.From = &from
	}
	if len(m.CC) > 0 {
		payload.CcRecipients = wireRecipients(m.CC)
	}
	if len(m.BCC) > 0 {
		payload.BccRecipients = wireRecipients(m.BCC)
	}
	if len(m.attachments) > 0 {
		payload.Attachments = wireAttachments(m.attachments)
	}
	return payload
}
