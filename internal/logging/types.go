package logging

import "time"

// #region audit-entry
// AuditEntry is a single row in the validation_log table: one validated
// trace block, its verdict, and the itemized defects as recorded.
type AuditEntry struct {
	ConversationID string
	TraceID        int // -1 when the block carried no parseable ID
	IsValid        bool
	Errors         []string
	Details        []string
	CreatedAt      time.Time
}

// #endregion audit-entry
