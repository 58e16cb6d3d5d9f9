package domain

import "errors"

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidACL          = errors.New("unsupported canned acl")
	ErrInvalidSMSType      = errors.New("unsupported sms type")
	ErrInvalidExportFormat = errors.New("unsupported export format")
	ErrNotDirectory        = errors.New("source path is not a directory")
	ErrFetchFailed         = errors.New("fetching remote source failed")
	ErrFetchTooLarge       = errors.New("remote source exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("upload to storage failed")
)
