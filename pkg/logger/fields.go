package logger

// Shared log field name constants, so field naming stays consistent across
// the project and queryable in log aggregation.
const (
	// FieldTraceID trace id field
	FieldTraceID = "traceId"

	// FieldUID user id field
	FieldUID = "uid"

	// FieldDocumentID document id field
	FieldDocumentID = "documentId"

	// FieldParentID parent document id field
	FieldParentID = "parentId"

	// FieldKind document kind field
	FieldKind = "kind"

	// FieldMethod method name field
	FieldMethod = "method"

	// FieldDuration elapsed time field
	FieldDuration = "duration"

	// FieldError error message field
	FieldError = "error"
)
