package handler

// Swagger type definitions for API documentation.

// --- Request Types ---

// CreateBucketRequest represents the create bucket request body.
type CreateBucketRequest struct {
	Name string `json:"name" binding:"required" example:"media-assets"`
	ACL  string `json:"acl" example:"public-read"`
}

// FetchObjectRequest represents the fetch-from-URL request body.
type FetchObjectRequest struct {
	SourceURL string `json:"source_url" binding:"required" example:"https://example.com/logo.png"`
	Key       string `json:"key" binding:"required" example:"logo.png"`
	Folder    string `json:"folder" example:"brand/2025/"`
}

// DeleteObjectsRequest represents the batch delete request body.
type DeleteObjectsRequest struct {
	Keys []string `json:"keys" binding:"required,min=1" example:"a.txt,b.txt"`
}

// CopyObjectRequest represents the copy object request body.
type CopyObjectRequest struct {
	Key       string `json:"key" binding:"required" example:"reports/q1.pdf"`
	DstBucket string `json:"dst_bucket" binding:"required" example:"archive"`
	DstKey    string `json:"dst_key" binding:"required" example:"2025/reports/q1.pdf"`
}

// RenameObjectRequest represents the rename object request body.
type RenameObjectRequest struct {
	Key    string `json:"key" binding:"required" example:"drafts/q1.pdf"`
	NewKey string `json:"new_key" binding:"required" example:"final/q1.pdf"`
}

// CreateFolderRequest represents the create folder request body.
type CreateFolderRequest struct {
	Folder string `json:"folder" binding:"required" example:"photos/2025"`
}

// SendSMSRequest represents the SMS dispatch request body.
type SendSMSRequest struct {
	Message     string `json:"message" binding:"required" example:"Your verification code is 123456"`
	PhoneNumber string `json:"phone_number" binding:"required" example:"+15555550100"`
	Type        string `json:"type" example:"Transactional"`
	SenderID    string `json:"sender_id" example:"Acme"`
}

// SendEmailRequest represents the email dispatch request body.
type SendEmailRequest struct {
	To       string `json:"to" binding:"required" example:"ops@example.com"`
	Subject  string `json:"subject" binding:"required" example:"Nightly export ready"`
	TextBody string `json:"text_body" example:"The export finished."`
	HTMLBody string `json:"html_body" example:"<p>The export finished.</p>"`
}

// --- Response Types ---

// Response is the generic success envelope.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
}

// ErrorResponseBody is the error envelope.
type ErrorResponseBody struct {
	Success bool     `json:"success" example:"false"`
	Error   APIError `json:"error"`
}

// SignedURLResponse holds a presigned URL.
type SignedURLResponse struct {
	URL       string `json:"url" example:"https://media.s3.amazonaws.com/a.png?X-Amz-Signature=..."`
	ExpiresIn string `json:"expires_in" example:"3m0s"`
}

// ExistsResponse reports whether an object or folder exists.
type ExistsResponse struct {
	Exists bool `json:"exists" example:"true"`
}

// SizeResponse holds an object size in bytes.
type SizeResponse struct {
	Size int64 `json:"size" example:"2048"`
}

// CountResponse holds the number of objects affected by a bulk operation.
type CountResponse struct {
	Count int `json:"count" example:"3"`
}

// FolderResponse holds the key of a folder marker.
type FolderResponse struct {
	Key string `json:"key" example:"photos/2025/"`
}
