package constant

const (
	// Audit action kinds. String values follow the wording the editor UI
	// has always displayed, so existing log consumers keep working.
	AuditActionDocumentAdded   = "Document Added"
	AuditActionDocumentEdited  = "Document Edited"
	AuditActionDocumentDeleted = "Document Deleted"
	AuditActionFileUploaded    = "File Uploaded"
	AuditActionIndexCommitted  = "Index Committed"

	// Display alias for the root document namespace.
	RootFolderDisplayName = "Main Folder"

	// Audit query windows.
	AuditWindowAll        = "all"
	AuditWindowLast10Days = "10days"
	AuditWindowLast30Days = "30days"

	// Defaults for the index build step.
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 300
	DefaultTopK         = 5
)
