package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// #region log-validation
// LogValidation writes an audit entry to the validation_log table.
func LogValidation(db *sql.DB, entry AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	errorsJSON, err := json.Marshal(entry.Errors)
	if err != nil {
		return fmt.Errorf("marshal errors: %w", err)
	}
	detailsJSON, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}

	var traceID interface{}
	if entry.TraceID >= 0 {
		traceID = entry.TraceID
	}

	_, err = db.Exec(
		`INSERT INTO validation_log (conversation_id, trace_id, is_valid, errors_json, details_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ConversationID,
		traceID,
		entry.IsValid,
		string(errorsJSON),
		string(detailsJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log validation: %w", err)
	}
	return nil
}

// #endregion log-validation

// #region list-validations

// ListValidations returns the audit rows for one conversation, oldest first.
func ListValidations(db *sql.DB, conversationID string) ([]AuditEntry, error) {
	rows, err := db.Query(
		`SELECT conversation_id, trace_id, is_valid, errors_json, details_json, created_at
		 FROM validation_log WHERE conversation_id = ? ORDER BY id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list validations: %w", err)
	}
	defer rows.Close()

	var out []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		var traceID sql.NullInt64
		var errorsJSON, detailsJSON sql.NullString
		var createdAt string

		if err := rows.Scan(&entry.ConversationID, &traceID, &entry.IsValid, &errorsJSON, &detailsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan validation row: %w", err)
		}
		entry.TraceID = -1
		if traceID.Valid {
			entry.TraceID = int(traceID.Int64)
		}
		if errorsJSON.Valid {
			if err := json.Unmarshal([]byte(errorsJSON.String), &entry.Errors); err != nil {
				return nil, fmt.Errorf("unmarshal errors: %w", err)
			}
		}
		if detailsJSON.Valid {
			if err := json.Unmarshal([]byte(detailsJSON.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshal details: %w", err)
			}
		}
		if entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// #endregion list-validations
