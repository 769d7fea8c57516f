package errs

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrObjectNotFound = errors.New("object not found")

	ErrMalformedEnvelope   = errors.New("malformed envelope")
	ErrUnclassified        = errors.New("unclassified event")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrMalformedKey        = errors.New("malformed object key")
	ErrTableOperation      = errors.New("table operation failed")

	ErrUnknownRoute = errors.New("unknown route")
)
