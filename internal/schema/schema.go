// Package schema owns the JSON payload format stored inside record
// descriptions: the `_type` discriminator, the `_audit` trail, and the
// tolerant extraction of a JSON object embedded in surrounding free text.
package schema

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeBooking = "booking"
	TypeClient  = "client"
	TypeVehicle = "vehicle"
	TypeInvoice = "invoice"
	TypeExpense = "expense"
)

// MalformedRecordError means an external record exists but its payload does
// not parse as the expected entity. Surfaced distinctly from not-found so an
// operator can tell "missing" from "corrupt"; never downgraded to a blank
// record.
type MalformedRecordError struct {
	RecordID string
	Reason   string
}

func (e *MalformedRecordError) Error() string {
	if e.RecordID == "" {
		return "malformed record: " + e.Reason
	}
	return fmt.Sprintf("malformed record %s: %s", e.RecordID, e.Reason)
}

// ValidationError means the caller supplied insufficient or malformed input.
// Recoverable: correct the input and retry.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation: " + e.Msg }

// InvalidTransitionError means a requested status change is not an edge in
// the workflow's transition table. The record is left untouched.
type InvalidTransitionError struct {
	Status string
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: action %q not allowed from status %s", e.Action, e.Status)
}

// Actor identifies who performs an operation. Used for audit logging only,
// never for authorization decisions.
type Actor struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// AuditEntry is one append-only audit record kept inside the payload.
type AuditEntry struct {
	Timestamp string            `json:"ts"`
	Role      string            `json:"role"`
	Name      string            `json:"name"`
	Action    string            `json:"action"`
	Meta      map[string]string `json:"meta,omitempty"`
}

func NewAuditEntry(actor Actor, action string, meta map[string]string) AuditEntry {
	return AuditEntry{
		Timestamp: time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
		Role:      actor.Role,
		Name:      actor.Name,
		Action:    action,
		Meta:      meta,
	}
}

// Encode renders a payload document as indented JSON, which keeps the card
// description readable for operators looking at the board directly.
func Encode(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(b), nil
}

// ExtractObject returns the first balanced JSON object found in s. Operators
// sometimes add notes above or below the JSON block in a card description;
// the payload is still recoverable as long as one balanced object remains.
func ExtractObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return "", false
}
