package outlook

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// FolderService owns the network calls and wire conversion for mail
// folders.
type FolderService struct {
	account *Account
}

// Get fetches one folder by id or well-known name such as "Inbox".
func (s *FolderService) Get(ctx context.Context, id string) (*Folder, error) {
	body, err := s.account.do(ctx, http.MethodGet, "/me/mailFolders/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return s.fromBody(body)
}

// All lists the account's folders.
func (s *FolderService) All(ctx context.Context) ([]*Folder, error) {
	body, err := s.account.do(ctx, http.MethodGet, "/me/mailFolders", nil, nil)
	if err != nil {
		return nil, err
	}
	return s.listFromBody(body)
}

// Create creates a folder in the mailbox root and returns the
// server-confirmed result.
func (s *FolderService) Create(ctx context.Context, name string) (*Folder, error) {
	body, err := s.account.do(ctx, http.MethodPost, "/me/mailFolders",
		nil, map[string]string{"displayName": name})
	if err != nil {
		return nil, err
	}
	return s.fromBody(body)
}

// folderJSON is the incoming wire shape of a folder.  Only id is
// required.
type folderJSON struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	ParentFolderID   string `json:"parentFolderId"`
	ChildFolderCount int    `json:"childFolderCount"`
	UnreadItemCount  int    `json:"unreadItemCount"`
	TotalItemCount   int    `json:"totalItemCount"`
}

func (s *FolderService) fromBody(body []byte) (*Folder, error) {
	var j folderJSON
	if err := decode(body, &j); err != nil {
		return nil, err
	}
	return s.folderFromWire(j)
}

func (s *FolderService) listFromBody(body []byte) ([]*Folder, error) {
	var list struct {
		Value []folderJSON `json:"value"`
	}
	if err := decode(body, &list); err != nil {
		return nil, err
	}
	folders := make([]*Folder, 0, len(list.Value))
	for _, j := range list.Value {
		f, err := s.folderFromWire(j)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, nil
}

func (s *FolderService) folderFromWire(j folderJSON) (*Folder, error) {
	if j.ID == "" {
		return nil, errors.New("malformed folder object: missing id")
	}
	return &Folder{
		account:          s.account,
		ID:               j.ID,
		Name:             j.DisplayName,
		ParentID:         j.ParentFolderID,
		ChildFolderCount: j.ChildFolderCount,
		UnreadCount:      j.UnreadItemCount,
		TotalItems:       j.TotalItemCount,
	}, nil
}
