package outlook

import (
	"encoding/base64"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// fileAttachmentType is the vendor discriminator for file attachments
// in outgoing payloads.
const fileAttachmentType = "#microsoft.graph.fileAttachment"

// Attachment represents a file attached to a message.  Outgoing
// attachments are built by the caller from raw bytes and a name;
// incoming ones come from the server and additionally carry OutlookID,
// Size and LastModified.
type Attachment struct {
	Name        string
	Bytes       []byte
	ContentType string

	// Server-assigned metadata, zero for locally constructed
	// attachments.
	OutlookID    string
	Size         int64
	LastModified time.Time
}

// attachmentJSON is the wire shape of an attachment.  Content travels
// as base64 text in both directions, never raw binary.
type attachmentJSON struct {
	ODataType    string `json:"@odata.type,omitempty"`
	Name         string `json:"name"`
	ContentBytes string `json:"contentBytes"`
	ContentType  string `json:"contentType,omitempty"`
	ContentID    string `json:"contentId,omitempty"`
	Size         int64  `json:"size,omitempty"`
	LastModified string `json:"lastModifiedDateTime,omitempty"`
}

func (a *Attachment) wire() attachmentJSON {
	return attachmentJSON{
		ODataType:    fileAttachmentType,
		Name:         a.Name,
		ContentBytes: base64.StdEncoding.EncodeToString(a.Bytes),
		ContentType:  a.ContentType,
	}
}

func wireAttachments(attachments []*Attachment) []attachmentJSON {
	out := make([]attachmentJSON, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, a.wire())
	}
	return out
}

func attachmentFromWire(j attachmentJSON) (*Attachment, error) {
	content, err := base64.StdEncoding.DecodeString(j.ContentBytes)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding attachment %q content", j.Name)
	}
	a := &Attachment{
		Name:        j.Name,
		Bytes:       content,
		ContentType: j.ContentType,
		OutlookID:   j.ContentID,
		Size:        j.Size,
	}
	if t, ok := parseWireTime(j.LastModified); ok {
		a.LastModified = t
	}
	return a, nil
}

var invalidFilenameChars = regexp.MustCompile(`[^-\p{L}\p{N}_.]`)

// validFilename sanitizes a caller supplied attachment name: trim,
// spaces to underscores, and strip anything that is not a word
// character, dash or dot.
func validFilename(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	return invalidFilenameChars.ReplaceAllString(name, "")
}
