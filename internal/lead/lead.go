// Package lead defines the record persisted for each completed conversation
// and the submission service fanning it out to the configured stores.
package lead

import (
	"strings"
	"time"
)

// timeLayout is the minute-precision format the administrators expect in the
// spreadsheet.
const timeLayout = "2006-01-02 15:04"

// HandleMissing substitutes the handle of a user without a public username.
const HandleMissing = "Не указан"

const ageSuffix = " лет"

// Record is a completed lead ready for human follow-up. The chat identifier
// deliberately never appears here: the persisted schema carries no internal
// ids.
type Record struct {
	SubmittedAt string
	DisplayName string
	Handle      string
	Phone       string
	AgeLabel    string
}

// NewRecord builds a record from raw sender details, applying handle and
// phone normalization and rendering the bracket code as its display label.
func NewRecord(now time.Time, displayName, username, phone, ageCode string) Record {
	return Record{
		SubmittedAt: now.Format(timeLayout),
		DisplayName: displayName,
		Handle:      NormalizeHandle(username),
		Phone:       NormalizePhone(phone),
		AgeLabel:    AgeLabel(ageCode),
	}
}

// AgeLabel renders a bracket code as the years-suffixed label shown on
// buttons and stored with the lead.
func AgeLabel(code string) string {
	return code + ageSuffix
}

// NormalizeHandle strips exactly one leading @ and falls back to the sentinel
// when no username was provided.
func NormalizeHandle(username string) string {
	if username == "" {
		return HandleMissing
	}
	return strings.TrimPrefix(username, "@")
}

// NormalizePhone strips exactly one leading + if present. No further
// sanitization happens; the value is reviewed by a human.
func NormalizePhone(phone string) string {
	return strings.TrimPrefix(phone, "+")
}

// Row lays the record out as a spreadsheet row.
func (r Record) Row() []string {
	return []string{r.SubmittedAt, r.DisplayName, r.Handle, r.Phone, r.AgeLabel}
}
