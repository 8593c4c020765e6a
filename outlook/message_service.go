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
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// MessagesPerPage is the listing page size fixed by the backend.
const MessagesPerPage = 10

// MessageService owns the network calls and wire conversion for
// messages.
type MessageService struct {
	account *Account
}

// Get fetches one message by its server id.
func (s *MessageService) Get(ctx context.Context, id string) (*Message, error) {
	body, err := s.account.do(ctx, http.MethodGet, "/me/messages/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	var j messageJSON
	if err := decode(body, &j); err != nil {
		return nil, err
	}
	return s.messageFromWire(j)
}

// All fetches one page of messages across all folders.  Pages are
// zero-indexed and MessagesPerPage long.
func (s *MessageService) All(ctx context.Context, page int) ([]*Message, error) {
	var query url.Values
	if page > 0 {
		query = url.Values{"$skip": []string{strconv.Itoa(page * MessagesPerPage)}}
	}
	body, err := s.account.do(ctx, http.MethodGet, "/me/messages", query, nil)
	if err != nil {
		return nil, err
	}
	return s.messagesFromBody(body)
}

// FromFolder fetches the first page of messages in a folder, identified
// by id, well-known name, or a retrieved Folder.
func (s *MessageService) FromFolder(ctx context.Context, folder FolderRef) ([]*Message, error) {
	path := "/me/mailFolders/" + url.PathEscape(folder.folderRef()) + "/messages"
	body, err := s.account.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return s.messagesFromBody(body)
}

// Send submits a message.  A message with no To recipients fails
// locally before any request is made; a round trip to discover a
// client-side mistake is not worth it.
func (s *MessageService) Send(ctx context.Context, m *Message) error {
	if len(m.To) == 0 {
		return miscErrorf("message has no recipients")
	}
	payload := struct {
		Message messagePayload `json:"message"`
	}{Message: m.wirePayload()}
	_, err := s.account.do(ctx, http.MethodPost, "/me/sendMail", nil, payload)
	return err
}

// messageJSON is the incoming wire shape of a message.  Only id is
// required; every other field defaults when absent.
type messageJSON struct {
	ID                      string          `json:"id"`
	Subject                 string          `json:"subject"`
	Body                    *bodyJSON       `json:"body"`
	BodyPreview             string          `json:"bodyPreview"`
	Sender                  *contactJSON    `json:"sender"`
	ToRecipients            []contactJSON   `json:"toRecipients"`
	CcRecipients            []contactJSON   `json:"ccRecipients"`
	BccRecipients           []contactJSON   `json:"bccRecipients"`
	IsRead                  bool            `json:"isRead"`
	IsDraft                 bool            `json:"isDraft"`
	HasAttachments          bool            `json:"hasAttachments"`
	CreatedDateTime         string          `json:"createdDateTime"`
	SentDateTime            string          `json:"sentDateTime"`
	ParentFolderID          string          `json:"parentFolderId"`
	Importance              json.RawMessage `json:"importance"`
	Categories              []string        `json:"categories"`
	InferenceClassification string          `json:"inferenceClassification"`
}

func (s *MessageService) messagesFromBody(body []byte) ([]*Message, error) {
	var list struct {
		Value []messageJSON `json:"value"`
	}
	if err := decode(body, &list); err != nil {
		return nil, err
	}
	messages := make([]*Message, 0, len(list.Value))
	for _, j := range list.Value {
		m, err := s.messageFromWire(j)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (s *MessageService) messageFromWire(j messageJSON) (*Message, error) {
	if j.ID == "" {
		return nil, errors.New("malformed message object: missing id")
	}

	m := &Message{
		account:        s.account,
		ID:             j.ID,
		Subject:        j.Subject,
		BodyPreview:    j.BodyPreview,
		To:             contactsFromWire(j.ToRecipients),
		CC:             contactsFromWire(j.CcRecipients),
		BCC:            contactsFromWire(j.BccRecipients),
		IsRead:         j.IsRead,
		IsDraft:        j.IsDraft,
		Importance:     importanceFromWire(j.Importance),
		Focused:        j.InferenceClassification == "Focused",
		Categories:     j.Categories,
		ParentFolderID: j.ParentFolderID,
		hasAttachments: j.HasAttachments,
	}
	if j.Body != nil {
		m.Body = j.Body.Content
		m.ContentType = BodyType(j.Body.ContentType)
	}
	if j.Sender != nil {
		m.Sender = contactFromWire(*j.Sender)
	}
	if t, ok := parseWireTime(j.CreatedDateTime); ok {
		m.TimeCreated = t
	}
	if t, ok := parseWireTime(j.SentDateTime); ok {
		m.TimeSent = t
	}
	return m, nil
}

// importanceFromWire accepts either the symbolic name or the ordinal,
// defaulting to normal.
func importanceFromWire(raw json.RawMessage) Importance {
	if len(raw) == 0 {
		return ImportanceNormal
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		switch name {
		case "low", "Low":
			return ImportanceLow
		case "high", "High":
			return ImportanceHigh
		default:
			return ImportanceNormal
		}
	}
	var ordinal int
	if err := json.Unmarshal(raw, &ordinal); err == nil {
		switch Importance(ordinal) {
		case ImportanceLow, ImportanceNormal, ImportanceHigh:
			return Importance(ordinal)
		}
	}
	return ImportanceNormal
}
