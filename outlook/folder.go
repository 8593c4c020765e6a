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
)

// FolderRef identifies a destination folder: either an opaque id, a
// well-known name, or a Folder previously retrieved.
type FolderRef interface {
	folderRef() string
}

// FolderID is a folder id or well-known folder name usable wherever a
// FolderRef is expected.
type FolderID string

func (id FolderID) folderRef() string { return string(id) }

// Well-known folder names recognized by the server in place of opaque
// ids.
const (
	FolderInbox        FolderID = "Inbox"
	FolderDrafts       FolderID = "Drafts"
	FolderSentItems    FolderID = "SentItems"
	FolderDeletedItems FolderID = "DeletedItems"
)

// Folder represents a mail folder.  All counts are point-in-time
// snapshots taken when the folder was retrieved.  Structural operations
// return a new Folder reflecting the server's post-operation state; the
// receiver is never mutated, so a stale handle stays visibly stale.
type Folder struct {
	account *Account

	ID               string
	Name             string
	ParentID         string
	ChildFolderCount int
	UnreadCount      int
	TotalItems       int
}

func (f *Folder) String() string { return f.Name }

func (f *Folder) folderRef() string { return f.ID }

func (f *Folder) path(suffix string) string {
	p := "/me/mailFolders/" + url.PathEscape(f.ID)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

// Rename renames the folder.  The returned Folder carries the server's
// authoritative state, which may differ from the requested name.
func (f *Folder) Rename(ctx context.Context, name string) (*Folder, error) {
	body, err := f.account.do(ctx, http.MethodPatch, f.path(""),
		nil, map[string]string{"displayName": name})
	if err != nil {
		return nil, err
	}
	return f.account.Folders.fromBody(body)
}

// MoveInto moves the folder into a destination folder.
func (f *Folder) MoveInto(ctx context.Context, destination FolderRef) (*Folder, error) {
	body, err := f.account.do(ctx, http.MethodPost, f.path("move"),
		nil, map[string]string{"destinationId": destination.folderRef()})
	if err != nil {
		return nil, err
	}
	return f.account.Folders.fromBody(body)
}

// CopyInto copies the folder into a destination folder.
func (f *Folder) CopyInto(ctx context.Context, destination FolderRef) (*Folder, error) {
	body, err := f.account.do(ctx, http.MethodPost, f.path("copy"),
		nil, map[string]string{"destinationId": destination.folderRef()})
	if err != nil {
		return nil, err
	}
	return f.account.Folders.fromBody(body)
}

// CreateChildFolder creates a folder inside this one.
func (f *Folder) CreateChildFolder(ctx context.Context, name string) (*Folder, error) {
	body, err := f.account.do(ctx, http.MethodPost, f.path("childFolders"),
		nil, map[string]string{"displayName": name})
	if err != nil {
		return nil, err
	}
	return f.account.Folders.fromBody(body)
}

// ChildFolders lists the folders directly inside this one.
func (f *Folder) ChildFolders(ctx context.Context) ([]*Folder, error) {
	body, err := f.account.do(ctx, http.MethodGet, f.path("childFolders"), nil, nil)
	if err != nil {
		return nil, err
	}
	return f.account.Folders.listFromBody(body)
}

// Messages lists the first page of messages in this folder.
func (f *Folder) Messages(ctx context.Context) ([]*Message, error) {
	return f.account.Messages.FromFolder(ctx, f)
}
