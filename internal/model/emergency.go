package model

import "time"

// EmergencyState is the tenant-wide content override. At most one active row
// per tenant; it outranks every other resolution step while unexpired.
type EmergencyState struct {
	ID              int       `db:"id"               json:"id"`
	TenantID        int       `db:"tenant_id"        json:"tenant_id"`
	ContentType     string    `db:"content_type"     json:"content_type"`
	ContentID       int       `db:"content_id"       json:"content_id"`
	StartedAt       time.Time `db:"started_at"       json:"started_at"`
	DurationMinutes *int      `db:"duration_minutes" json:"duration_minutes"`
	Active          bool      `db:"active"           json:"active"`
	CreatedBy       int       `db:"created_by"       json:"created_by"`
}

// Ref returns the validated override content reference.
func (e EmergencyState) Ref() (ContentRef, error) {
	return NewContentRef(e.ContentType, e.ContentID)
}

// ExpiresAt returns the expiry instant, or ok=false for an open-ended
// emergency.
func (e EmergencyState) ExpiresAt() (time.Time, bool) {
	if e.DurationMinutes == nil {
		return time.Time{}, false
	}
	return e.StartedAt.Add(time.Duration(*e.DurationMinutes) * time.Minute), true
}

// Expired reports whether the emergency has run past its duration at now.
func (e EmergencyState) Expired(now time.Time) bool {
	exp, ok := e.ExpiresAt()
	return ok && now.After(exp)
}
