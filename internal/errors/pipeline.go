package errors

import (
	"errors"
	"fmt"
	"strings"
)

// IngestErrorKind discriminates the fatal failures the ingestion pipeline
// can surface. Field-level parsing problems never become IngestErrors;
// they degrade to defaults inside the normalizer.
type IngestErrorKind string

const (
	// Upload-level
	KindTooLarge         IngestErrorKind = "too_large"
	KindInvalidExtension IngestErrorKind = "invalid_extension"
	KindEmptyFile        IngestErrorKind = "empty_file"
	KindBinaryContent    IngestErrorKind = "binary_content_rejected"

	// Decode-level
	KindUndecodable IngestErrorKind = "undecodable"

	// Structural
	KindMissingColumns   IngestErrorKind = "missing_columns"
	KindNoDataRows       IngestErrorKind = "no_data_rows"
	KindRowLimitExceeded IngestErrorKind = "row_limit_exceeded"
	KindMalformedCSV     IngestErrorKind = "malformed_csv"

	// Cell-level
	KindCellTooLarge IngestErrorKind = "cell_too_large"
)

// IngestError is the discriminated error carried out of the pipeline.
// Row is 1-based into the original data rows; zero values mean the field
// does not apply to the kind.
type IngestError struct {
	Kind    IngestErrorKind
	Message string
	Cause   error

	Row     int
	Column  string
	Limit   int64
	Actual  int64
	Missing []string
}

// Error implements the error interface
func (e *IngestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is and errors.As to inspect the cause
func (e *IngestError) Unwrap() error {
	return e.Cause
}

// IsIngestError reports whether err is an IngestError of the given kind.
func IsIngestError(err error, kind IngestErrorKind) bool {
	var ie *IngestError
	if !errors.As(err, &ie) {
		return false
	}
	return ie.Kind == kind
}

// NewTooLargeError reports an upload exceeding the configured size ceiling.
func NewTooLargeError(declared, limit int64) *IngestError {
	return &IngestError{
		Kind:    KindTooLarge,
		Message: fmt.Sprintf("file size %d bytes exceeds the maximum of %d bytes", declared, limit),
		Actual:  declared,
		Limit:   limit,
	}
}

// NewInvalidExtensionError reports a disallowed file extension.
func NewInvalidExtensionError(ext string, allowed []string) *IngestError {
	return &IngestError{
		Kind:    KindInvalidExtension,
		Message: fmt.Sprintf("file extension %q is not allowed (allowed: %s)", ext, strings.Join(allowed, ", ")),
	}
}

// NewEmptyFileError reports a zero-byte upload.
func NewEmptyFileError() *IngestError {
	return &IngestError{
		Kind:    KindEmptyFile,
		Message: "uploaded file is empty",
	}
}

// NewBinaryContentError reports a file whose leading bytes carry an
// executable signature regardless of its declared extension.
func NewBinaryContentError(signature string) *IngestError {
	return &IngestError{
		Kind:    KindBinaryContent,
		Message: fmt.Sprintf("file content rejected: binary signature %q detected", signature),
	}
}

// NewUndecodableError reports that no candidate encoding decoded the file.
func NewUndecodableError(encodings []string) *IngestError {
	return &IngestError{
		Kind:    KindUndecodable,
		Message: fmt.Sprintf("file could not be decoded with any candidate encoding (%s)", strings.Join(encodings, ", ")),
	}
}

// NewMissingColumnsError reports absent required header columns.
func NewMissingColumnsError(missing []string) *IngestError {
	return &IngestError{
		Kind:    KindMissingColumns,
		Message: fmt.Sprintf("required columns missing: %s", strings.Join(missing, ", ")),
		Missing: missing,
	}
}

// NewNoDataRowsError reports a header-only or effectively empty file.
func NewNoDataRowsError() *IngestError {
	return &IngestError{
		Kind:    KindNoDataRows,
		Message: "file contains no data rows",
	}
}

// NewRowLimitError reports a file exceeding the configured row ceiling.
func NewRowLimitError(limit, actual int) *IngestError {
	return &IngestError{
		Kind:    KindRowLimitExceeded,
		Message: fmt.Sprintf("file contains %d rows, exceeding the maximum of %d", actual, limit),
		Limit:   int64(limit),
		Actual:  int64(actual),
	}
}

// NewMalformedCSVError reports a structurally broken file that the lenient
// parser still could not read.
func NewMalformedCSVError(cause error) *IngestError {
	return &IngestError{
		Kind:    KindMalformedCSV,
		Message: "file is not structurally valid CSV",
		Cause:   cause,
	}
}

// NewCellTooLargeError reports a single cell exceeding the length ceiling.
func NewCellTooLargeError(row int, column string, length, limit int) *IngestError {
	return &IngestError{
		Kind:    KindCellTooLarge,
		Message: fmt.Sprintf("cell at row %d column %q is %d characters, exceeding the maximum of %d", row, column, length, limit),
		Row:     row,
		Column:  column,
		Actual:  int64(length),
		Limit:   int64(limit),
	}
}
