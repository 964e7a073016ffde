// Package ingest implements the Advisor CSV processing pipeline: decode,
// structural validation, cell sanitization, field normalization,
// reservation classification, and statistics aggregation.
//
// The pipeline treats every upload as hostile. Bytes flow through the
// stages strictly in order; upload-level, decode-level, and structural
// failures abort the whole batch, while field-level problems degrade to
// documented defaults. Every component is a value object constructed per
// call site with no shared mutable state, so independent uploads can be
// processed concurrently by independent workers.
package ingest
