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

// Package outlook maps the Outlook mail REST endpoints onto an object
// model: an authenticated Account composes per-resource services that
// produce and operate on Message, Folder, Contact and Attachment
// values.  Every operation is a single synchronous HTTP round trip; the
// caller owns retries.
package outlook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"gooutlook/internal/rest"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// Account holds credentials for one mailbox and composes the resource
// services bound to it.
type Account struct {
	rest *rest.Client

	Messages *MessageService
	Folders  *FolderService
	Contacts *ContactService

	autoReply        string
	autoReplyFetched bool

	contactOverrides []*Contact
	overridesFetched bool
}

// Option adjusts account construction.
type Option func(*rest.Settings)

// WithBaseURL points the account at a different endpoint root.  Used by
// tests.
func WithBaseURL(baseURL string) Option {
	return func(s *rest.Settings) { s.BaseURL = baseURL }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *rest.Settings) { s.HTTPClient = c }
}

// WithTokenSource supplies tokens from a rotating source instead of a
// fixed string.  The source is read on every request.
func WithTokenSource(tokens oauth2.TokenSource) Option {
	return func(s *rest.Settings) { s.Tokens = tokens }
}

// WithTrace logs every request and response, credentials redacted.
func WithTrace() Option {
	return func(s *rest.Settings) { s.Trace = true }
}

// NewAccount returns an Account authenticated with the given bearer
// token.  The token is assumed valid; acquiring and refreshing it is
// the caller's concern.
func NewAccount(accessToken string, opts ...Option) (*Account, error) {
	settings := rest.Settings{
		Tokens: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}),
	}
	for _, opt := range opts {
		opt(&settings)
	}
	client, err := rest.New(settings)
	if err != nil {
		return nil, err
	}

	a := &Account{rest: client}
	a.Messages = &MessageService{account: a}
	a.Folders = &FolderService{account: a}
	a.Contacts = &ContactService{account: a}
	return a, nil
}

// do issues one request and classifies the response.  All service and
// entity methods go through here, so CheckResponse runs for every call
// the library makes.
func (a *Account) do(ctx context.Context, method, path string, query url.Values, payload interface{}) ([]byte, error) {
	resp, err := a.rest.Do(ctx, method, path, query, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}
	if err := CheckResponse(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

func decode(body []byte, v interface{}) error {
	return errors.Wrap(json.Unmarshal(body, v), "decoding response body")
}

// NewMessage starts a bare outgoing message.  Populate it and call
// Send.
func (a *Account) NewMessage(body, subject string, to ...Recipient) *Message {
	return &Message{
		account:    a,
		Body:       body,
		Subject:    subject,
		To:         normalizeRecipients(to),
		Importance: ImportanceNormal,
	}
}

// SendEmail builds and sends a message in one call.
func (a *Account) SendEmail(ctx context.Context, body, subject string, to ...Recipient) error {
	return a.NewMessage(body, subject, to...).Send(ctx)
}

// GetMessage fetches one message by id.
func (a *Account) GetMessage(ctx context.Context, id string) (*Message, error) {
	return a.Messages.Get(ctx, id)
}

// GetMessages fetches one page of messages across all folders.
func (a *Account) GetMessages(ctx context.Context, page int) ([]*Message, error) {
	return a.Messages.All(ctx, page)
}

// Inbox returns the first page of messages in the inbox.
func (a *Account) Inbox(ctx context.Context) ([]*Message, error) {
	return a.Messages.FromFolder(ctx, FolderInbox)
}

// SentMessages returns the first page of sent messages.
func (a *Account) SentMessages(ctx context.Context) ([]*Message, error) {
	return a.Messages.FromFolder(ctx, FolderSentItems)
}

// DeletedMessages returns the first page of deleted messages.
func (a *Account) DeletedMessages(ctx context.Context) ([]*Message, error) {
	return a.Messages.FromFolder(ctx, FolderDeletedItems)
}

// DraftMessages returns the first page of draft messages.
func (a *Account) DraftMessages(ctx context.Context) ([]*Message, error) {
	return a.Messages.FromFolder(ctx, FolderDrafts)
}

// GetFolders lists the account's folders.
func (a *Account) GetFolders(ctx context.Context) ([]*Folder, error) {
	return a.Folders.All(ctx)
}

// GetFolderByID fetches a folder by id or well-known name.
func (a *Account) GetFolderByID(ctx context.Context, id string) (*Folder, error) {
	return a.Folders.Get(ctx, id)
}

// ContactOverrides returns the focused-inbox override list, fetched
// once per Account and cached.
func (a *Account) ContactOverrides(ctx context.Context) ([]*Contact, error) {
	if a.overridesFetched {
		return a.contactOverrides, nil
	}
	overrides, err := a.Contacts.Overrides(ctx)
	if err != nil {
		return nil, err
	}
	a.contactOverrides = overrides
	a.overridesFetched = true
	return a.contactOverrides, nil
}

// AutoReplyStatus selects whether automatic replies are sent.
type AutoReplyStatus string

const (
	AutoReplyDisabled      AutoReplyStatus = "disabled"
	AutoReplyAlwaysEnabled AutoReplyStatus = "alwaysEnabled"
	AutoReplyScheduled     AutoReplyStatus = "scheduled"
)

// AutoReplyAudience selects who receives automatic replies.
type AutoReplyAudience string

const (
	AudienceNone         AutoReplyAudience = "none"
	AudienceContactsOnly AutoReplyAudience = "contactsOnly"
	AudienceAll          AutoReplyAudience = "all"
)

// AutoReplySettings configures the account's out-of-office reply.
// Status defaults to always enabled and Audience to everyone.  Start
// and End must both be set or both be nil.
type AutoReplySettings struct {
	// Message is sent to internal recipients, and to external ones
	// when ExternalMessage is empty.
	Message string

	// ExternalMessage, when set, is sent to external recipients
	// instead of Message.
	ExternalMessage string

	Status   AutoReplyStatus
	Audience AutoReplyAudience

	Start *time.Time
	End   *time.Time
}

type scheduleJSON struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type autoReplyJSON struct {
	Status               string        `json:"status,omitempty"`
	ExternalAudience     string        `json:"externalAudience,omitempty"`
	InternalReplyMessage string        `json:"internalReplyMessage"`
	ExternalReplyMessage string        `json:"externalReplyMessage"`
	ScheduledStart       *scheduleJSON `json:"scheduledStartDateTime,omitempty"`
	ScheduledEnd         *scheduleJSON `json:"scheduledEndDateTime,omitempty"`
}

const scheduleTimeLayout = "2006-01-02T15:04:05"

// AutoReplyMessage returns the account's internal auto-reply message,
// fetched once per Account and cached.  SetAutoReply refreshes the
// cache.
func (a *Account) AutoReplyMessage(ctx context.Context) (string, error) {
	if a.autoReplyFetched {
		return a.autoReply, nil
	}
	body, err := a.do(ctx, http.MethodGet, "/me/mailboxSettings", nil, nil)
	if err != nil {
		return "", err
	}
	var settings struct {
		AutomaticRepliesSetting struct {
			InternalReplyMessage string `json:"internalReplyMessage"`
		} `json:"automaticRepliesSetting"`
	}
	if err := decode(body, &settings); err != nil {
		return "", err
	}
	a.autoReply = settings.AutomaticRepliesSetting.InternalReplyMessage
	a.autoReplyFetched = true
	return a.autoReply, nil
}

// SetAutoReply configures the account's automatic reply.  A schedule
// with only one endpoint is rejected locally; nothing is sent.
func (a *Account) SetAutoReply(ctx context.Context, settings AutoReplySettings) error {
	if (settings.Start == nil) != (settings.End == nil) {
		return miscErrorf("auto-reply schedule start and end must both be set or both be unset")
	}

	status := settings.Status
	if status == "" {
		status = AutoReplyAlwaysEnabled
	}
	audience := settings.Audience
	if audience == "" {
		audience = AudienceAll
	}
	external := settings.ExternalMessage
	if external == "" {
		external = settings.Message
	}

	reply := autoReplyJSON{
		Status:               string(status),
		ExternalAudience:     string(audience),
		InternalReplyMessage: settings.Message,
		ExternalReplyMessage: external,
	}
	if settings.Start != nil {
		reply.ScheduledStart = &scheduleJSON{
			DateTime: settings.Start.Format(scheduleTimeLayout),
			TimeZone: "UTC",
		}
		reply.ScheduledEnd = &scheduleJSON{
			DateTime: settings.End.Format(scheduleTimeLayout),
			TimeZone: "UTC",
		}
	}

	payload := struct {
		AutomaticRepliesSetting autoReplyJSON `json:"automaticRepliesSetting"`
	}{AutomaticRepliesSetting: reply}

	if _, err := a.do(ctx, http.MethodPatch, "/me/mailboxSettings", nil, payload); err != nil {
		return err
	}
	a.autoReply = settings.Message
	a.autoReplyFetched = true
	return nil
}
