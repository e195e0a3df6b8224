package formmode

import "errors"

var (
	// ErrMalformedRecordSummary indicates a record summary whose text does not
	// follow the "Name:" heading and "Label: value" body layout.
	ErrMalformedRecordSummary = errors.New("malformed record summary")
	// ErrMissingFormElement indicates the markup lacks an element the
	// controller needs.
	ErrMissingFormElement = errors.New("missing form element")
)
