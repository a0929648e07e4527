package extraction

import "errors"

// Sentinel errors for document extraction.
var (
	ErrTooLarge        = errors.New("document exceeds the maximum upload size")
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrScannedDocument = errors.New("document appears to be scanned and contains no extractable text")
	ErrEmptyDocument   = errors.New("document contains no content")
)
