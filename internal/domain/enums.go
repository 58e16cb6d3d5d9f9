package domain

// CannedACL is a predefined access control policy applied to a bucket.
type CannedACL string

const (
	ACLPrivate           CannedACL = "private"
	ACLPublicRead        CannedACL = "public-read"
	ACLPublicReadWrite   CannedACL = "public-read-write"
	ACLAuthenticatedRead CannedACL = "authenticated-read"
)

// AllowedACLs is the set of canned ACLs accepted on bucket creation.
var AllowedACLs = map[CannedACL]bool{
	ACLPrivate:           true,
	ACLPublicRead:        true,
	ACLPublicReadWrite:   true,
	ACLAuthenticatedRead: true,
}

// SMSType controls delivery priority of an SMS message.
type SMSType string

const (
	SMSTransactional SMSType = "Transactional"
	SMSPromotional   SMSType = "Promotional"
)

// ExportFormat is the file format of an object inventory export.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ContentType returns the MIME type served for the export format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// AuditAction identifies the operation recorded in the audit log.
type AuditAction string

const (
	AuditCreateBucket  AuditAction = "bucket.create"
	AuditDeleteBucket  AuditAction = "bucket.delete"
	AuditPutObject     AuditAction = "object.put"
	AuditCopyObject    AuditAction = "object.copy"
	AuditRenameObject  AuditAction = "object.rename"
	AuditDeleteObject  AuditAction = "object.delete"
	AuditDeleteObjects AuditAction = "object.delete_batch"
	AuditFetchObject   AuditAction = "object.fetch"
	AuditPushDirectory AuditAction = "object.push_directory"
	AuditCreateFolder  AuditAction = "folder.create"
	AuditDeleteFolder  AuditAction = "folder.delete"
	AuditSendSMS       AuditAction = "notify.sms"
	AuditSendEmail     AuditAction = "notify.email"
)

// FolderDelimiter separates path segments in object keys.
const FolderDelimiter = "/"
