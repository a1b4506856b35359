package model

import (
	"time"

	"github.com/lib/pq"
)

type Schedule struct {
	ID        int       `db:"id"         json:"id"`
	TenantID  int       `db:"tenant_id"  json:"tenant_id"`
	Name      string    `db:"name"       json:"name"`
	CreatedBy int       `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleEntry is one rule of a schedule. Date bounds are civil dates,
// StartTime/EndTime are "HH:MM" clock times, DaysOfWeek uses 0=Sunday through
// 6=Saturday. Any unset constraint matches everything.
type ScheduleEntry struct {
	ID          int           `db:"id"           json:"id"`
	ScheduleID  int           `db:"schedule_id"  json:"schedule_id"`
	ContentType string        `db:"content_type" json:"content_type"`
	ContentID   int           `db:"content_id"   json:"content_id"`
	StartDate   *time.Time    `db:"start_date"   json:"start_date"`
	EndDate     *time.Time    `db:"end_date"     json:"end_date"`
	StartTime   *string       `db:"start_time"   json:"start_time"`
	EndTime     *string       `db:"end_time"     json:"end_time"`
	DaysOfWeek  pq.Int64Array `db:"days_of_week" json:"days_of_week"`
	Priority    int           `db:"priority"     json:"priority"`
	CreatedAt   time.Time     `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"   json:"updated_at"`
}

// Ref returns the entry's validated target content reference.
func (e ScheduleEntry) Ref() (ContentRef, error) {
	return NewContentRef(e.ContentType, e.ContentID)
}
