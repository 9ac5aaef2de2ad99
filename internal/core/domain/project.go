package domain

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectNew        ProjectStatus = "NEW"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectPending    ProjectStatus = "PENDING"
	ProjectFinished   ProjectStatus = "FINISHED"
)

// Project is the scope a session operates within. The persisted snapshot is
// denormalized on purpose: once selected it is treated as ground truth for the
// rest of the session and is never re-fetched on restore.
type Project struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Status      ProjectStatus `json:"status"`
	Description string        `json:"description,omitempty"`
	StartDate   string        `json:"startDate,omitempty"`
	EndDate     string        `json:"endDate,omitempty"`
	CreatorID   int64         `json:"creatorId,omitempty"`
}

// Finished reports whether the project is closed to new work.
func (p *Project) Finished() bool {
	return p != nil && p.Status == ProjectFinished
}
