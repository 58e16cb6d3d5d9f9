package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bucket is a top-level container in the object store.
type Bucket struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ObjectInfo is a single entry of an object listing.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// IsFolder reports whether the entry is an emulated folder marker.
func (o ObjectInfo) IsFolder() bool {
	return o.Size == 0 && len(o.Key) > 0 && o.Key[len(o.Key)-1] == '/'
}

// ObjectHead holds object metadata without its content.
type ObjectHead struct {
	Bucket        string    `json:"bucket"`
	Key           string    `json:"key"`
	ContentLength int64     `json:"content_length"`
	ContentType   string    `json:"content_type,omitempty"`
	ETag          string    `json:"etag,omitempty"`
	LastModified  time.Time `json:"last_modified"`
}

// SMSMessage is a single text message addressed to a phone number.
type SMSMessage struct {
	PhoneNumber string
	Message     string
	Type        SMSType
	SenderID    string
}

// EmailMessage is a single email to one recipient.
type EmailMessage struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// PublishResult is returned by a notification provider after accepting a message.
type PublishResult struct {
	MessageID string `json:"message_id"`
}

// AuditEntry records a mutating operation performed through the façade.
type AuditEntry struct {
	ID        uuid.UUID   `db:"id" json:"id"`
	Action    AuditAction `db:"action" json:"action"`
	Bucket    string      `db:"bucket" json:"bucket"`
	Key       string      `db:"object_key" json:"key"`
	Detail    string      `db:"detail" json:"detail"`
	RequestID string      `db:"request_id" json:"request_id"`
	Succeeded bool        `db:"succeeded" json:"succeeded"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// StoredObject describes an object written to the store by an upload.
type StoredObject struct {
	Bucket   string `json:"bucket"`
	Key      string `json:"key"`
	Location string `json:"location,omitempty"`
	ETag     string `json:"etag,omitempty"`
	Size     int64  `json:"size"`
}
