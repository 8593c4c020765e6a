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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageServiceGetParsesServerResponse(t *testing.T) {
	rec := &recorder{response: `{
		"id": "AAA",
		"subject": "Hi",
		"sender": {"emailAddress": {"address": "a@b.com", "name": "A"}},
		"isRead": false,
		"hasAttachments": false
	}`}
	account := testAccount(t, rec)

	ctx := context.Background()
	msg, err := account.Messages.Get(ctx, "AAA")
	require.NoError(t, err)

	assert.Equal(t, "AAA", msg.ID)
	assert.Equal(t, "Hi", msg.Subject)
	require.NotNil(t, msg.Sender)
	assert.Equal(t, "a@b.com", msg.Sender.Email)
	assert.Equal(t, "A", msg.Sender.Name)
	assert.False(t, msg.IsRead)

	attachments, err := msg.Attachments(ctx)
	require.NoError(t, err)
	assert.Empty(t, attachments)
	assert.Equal(t, 1, rec.calls, "reading empty attachments must not issue a request")
}

func TestMessageServiceGetRejectsMissingID(t *testing.T) {
	rec := &recorder{response: `{"subject": "no identity"}`}
	account := testAccount(t, rec)

	_, err := account.Messages.Get(context.Background(), "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestMessageServiceAllPagination(t *testing.T) {
	cases := []struct {
		page     int
		wantSkip string
	}{
		{0, ""},
		{1, "10"},
		{2, "20"},
		{12, "120"},
	}
	for _, tc := range cases {
		rec := &recorder{response: `{"value": []}`}
		account := testAccount(t, rec)

		_, err := account.Messages.All(context.Background(), tc.page)
		require.NoError(t, err)
		assert.Equal(t, "/me/messages", rec.lastPath)
		assert.Equal(t, tc.wantSkip, rec.lastQuery.Get("$skip"), "page %d", tc.page)
	}
}

func TestMessageServiceFromFolder(t *testing.T) {
	rec := &recorder{response: `{"value": [
		{"id": "m1", "subject": "first"},
		{"id": "m2", "subject": "second", "importance": "high"}
	]}`}
	account := testAccount(t, rec)

	msgs, err := account.Messages.FromFolder(context.Background(), FolderID("custom-id"))
	require.NoError(t, err)
	require.Equal(t, "/me/mailFolders/custom-id/messages", rec.lastPath)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Subject)
	assert.Equal(t, ImportanceNormal, msgs[0].Importance)
	assert.Equal(t, ImportanceHigh, msgs[1].Importance)
}

func TestMessageServiceSendRequiresRecipients(t *testing.T) {
	rec := &recorder{}
	account := testAccount(t, rec)

	msg := account.NewMessage("body", "subject")
	err := msg.Send(context.Background())

	var miscErr *MiscError
	require.ErrorAs(t, err, &miscErr)
	assert.Equal(t, 0, rec.calls, "a send precondition failure must not reach the network")
}

func TestMessageServiceSendPayload(t *testing.T) {
	rec := &recorder{status: http.StatusAccepted}
	account := testAccount(t, rec)

	msg := account.NewMessage("<p>Hello</p>", "Greetings", Address("to@example.com"))
	msg.AddCC(&Contact{Email: "cc@example.com", Name: "Copy"})
	msg.Importance = ImportanceHigh
	msg.Attach([]byte("hi"), "note.txt")

	require.NoError(t, msg.Send(context.Background()))
	require.Equal(t, http.MethodPost, rec.lastMethod)
	require.Equal(t, "/me/sendMail", rec.lastPath)

	var got struct {
		Message struct {
			Subject string `json:"subject"`
			Body    struct {
				ContentType string `json:"contentType"`
				Content     string `json:"content"`
			} `json:"body"`
			To []struct {
				EmailAddress struct {
					Name    string `json:"name"`
					Address string `json:"address"`
				} `json:"emailAddress"`
			} `json:"toRecipients"`
			CC []struct {
				EmailAddress struct {
					Name string `json:"name"`
				} `json:"emailAddress"`
			} `json:"ccRecipients"`
			Attachments []struct {
				ODataType    string `json:"@odata.type"`
				Name         string `json:"name"`
				ContentBytes string `json:"contentBytes"`
			} `json:"attachments"`
			Importance int `json:"importance"`
		} `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.lastBody, &got))

	assert.Equal(t, "Greetings", got.Message.Subject)
	assert.Equal(t, "HTML", got.Message.Body.ContentType)
	assert.Equal(t, "<p>Hello</p>", got.Message.Body.Content)
	require.Len(t, got.Message.To, 1)
	assert.Equal(t, "to@example.com", got.Message.To[0].EmailAddress.Address)
	require.Len(t, got.Message.CC, 1)
	assert.Equal(t, "Copy", got.Message.CC[0].EmailAddress.Name)
	require.Len(t, got.Message.Attachments, 1)
	assert.Equal(t, "#microsoft.graph.fileAttachment", got.Message.Attachments[0].ODataType)
	assert.Equal(t, "note.txt", got.Message.Attachments[0].Name)
	assert.Equal(t, "aGk=", got.Message.Attachments[0].ContentBytes)
	assert.Equal(t, 2, got.Message.Importance, "importance travels as its ordinal")
}

func TestMessageServiceParsesTimestampsAndFlags(t *testing.T) {
	rec := &recorder{response: `{
		"id": "m1",
		"isRead": true,
		"isDraft": true,
		"createdDateTime": "2024-03-15T09:30:00Z",
		"sentDateTime": "2024-03-15T10:00:00+02:00",
		"parentFolderId": "folder-1",
		"categories": ["Red", "Red"],
		"inferenceClassification": "Focused",
		"toRecipients": [
			{"emailAddress": {"address": "ok@example.com"}},
			{"emailAddress": {"name": "missing address"}}
		]
	}`}
	account := testAccount(t, rec)

	msg, err := account.Messages.Get(context.Background(), "m1")
	require.NoError(t, err)

	assert.True(t, msg.IsRead)
	assert.True(t, msg.IsDraft)
	assert.True(t, msg.Focused)
	assert.Equal(t, "folder-1", msg.ParentFolderID)
	assert.Equal(t, []string{"Red", "Red"}, msg.Categories, "duplicates are preserved")
	assert.Equal(t, 9, msg.TimeCreated.Hour())
	assert.Equal(t, 10, msg.TimeSent.Hour(), "offsets are truncated, not converted")
	require.Len(t, msg.To, 1, "the malformed recipient entry is skipped")
	assert.Equal(t, "ok@example.com", msg.To[0].Email)
}
