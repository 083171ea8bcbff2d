package task

import "time"

// Stats aggregates a user's tasks for the profile page.
type Stats struct {
	Total           int `json:"total"`
	Todo            int `json:"todo"`
	Doing           int `json:"doing"`
	Done            int `json:"done"`
	Expired         int `json:"expired"`
	AverageProgress int `json:"averageProgress"`
	CompletionRate  int `json:"completionRate"`
}

// ComputeStats summarizes tasks as of now. Averages round half up.
func ComputeStats(tasks []Task, now time.Time) Stats {
	var s Stats
	sum := 0
	for _, t := range tasks {
		s.Total++
		sum += t.Progress
		switch t.Status {
		case StatusTodo:
			s.Todo++
		case StatusDoing:
			s.Doing++
		case StatusDone:
			s.Done++
		}
		if t.IsExpired(now) {
			s.Expired++
		}
	}
	if s.Total > 0 {
		s.AverageProgress = (sum*2 + s.Total) / (2 * s.Total)
		s.CompletionRate = (s.Done*200 + s.Total) / (2 * s.Total)
	}
	return s
}

// Profile is a user's public-facing page.
type Profile struct {
	UserID      string    `json:"userId" db:"user_id"`
	DisplayName string    `json:"displayName" db:"display_name"`
	Bio         string    `json:"bio" db:"bio"`
	IsPublic    bool      `json:"isPublic" db:"is_public"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// DefaultDisplayName is shown when a user has not set one.
const DefaultDisplayName = "Anonymous"

// DefaultProfile is the profile a user has before saving one.
func DefaultProfile(userID string) Profile {
	return Profile{UserID: userID, DisplayName: DefaultDisplayName}
}

// ProfilePatch describes a profile edit. Nil fields are left unchanged.
type ProfilePatch struct {
	DisplayName *string
	Bio         *string
	IsPublic    *bool
}
