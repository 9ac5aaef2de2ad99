package domain

import "time"

// ActivityKind classifies session lifecycle and guard events.
type ActivityKind string

const (
	ActivityLogin           ActivityKind = "login"
	ActivityLoginFailed     ActivityKind = "login_failed"
	ActivityLogout          ActivityKind = "logout"
	ActivityProjectSelected ActivityKind = "project_selected"
	ActivityProjectCleared  ActivityKind = "project_cleared"
	ActivityRedirected      ActivityKind = "redirected"
	ActivityAccessDenied    ActivityKind = "access_denied"
)

// ActivityEvent is one entry of a user's session trail. Events are recorded
// asynchronously; per-session ordering is preserved by the recorder.
type ActivityEvent struct {
	ID          string       `json:"id"`
	SessionID   string       `json:"session_id"`
	UserID      int64        `json:"user_id,omitempty"`
	Kind        ActivityKind `json:"kind"`
	Destination Destination  `json:"destination,omitempty"`
	ProjectID   int64        `json:"project_id,omitempty"`
	At          time.Time    `json:"at"`
}
