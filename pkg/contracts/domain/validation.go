package domain

// ValidationReport is the non-fatal structural report produced once per
// upload. It is immutable after the structure pass completes; warnings
// never block processing.
type ValidationReport struct {
	IsValid        bool     `json:"is_valid"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
	RowCount       int      `json:"row_count"`
	ColumnCount    int      `json:"column_count"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	ExtraColumns   []string `json:"extra_columns,omitempty"`
}

// AddWarning appends a warning during report construction.
func (r *ValidationReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// AddError appends an error and marks the report invalid.
func (r *ValidationReport) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.IsValid = false
}

// UploadMeta carries the metadata the upload-handling layer declares
// about an incoming file. Declared values are treated as untrusted.
type UploadMeta struct {
	Filename    string `json:"filename" validate:"required"`
	Size        int64  `json:"size" validate:"gte=0"`
	ContentType string `json:"content_type,omitempty"`
}
