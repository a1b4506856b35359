package packets

import "encoding/json"

type SetEmergencyRequest struct {
	ContentType     string `json:"content_type" binding:"required"`
	ContentID       int    `json:"content_id" binding:"required"`
	DurationMinutes *int   `json:"duration_minutes"`
}

// SetOverrideRequest with a nil SceneID clears the override.
type SetOverrideRequest struct {
	SceneID *int `json:"scene_id"`
}

type SetAssignmentsRequest struct {
	LayoutID        *int `json:"layout_id"`
	PlaylistID      *int `json:"playlist_id"`
	SceneScheduleID *int `json:"scene_schedule_id"`
	ScheduleID      *int `json:"schedule_id"`
}

type UpdateSlideRequest struct {
	Design   json.RawMessage `json:"design"`
	Duration *int            `json:"duration"`
}

type SignupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     *string `json:"name"`
	TenantID int     `json:"tenant_id"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
