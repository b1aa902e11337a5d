package reminder

import "time"

// Status is a reminder's lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Reminder is a scheduled notification.
type Reminder struct {
	ID             int64
	Message        string
	Title          string
	Description    string
	CreatedAt      time.Time
	DueAt          time.Time
	Status         Status
	Repeat         bool
	RepeatInterval time.Duration
	Fired          int
}

// View is the listing form of a reminder.
type View struct {
	ID               int64     `json:"id"`
	Message          string    `json:"message"`
	Title            string    `json:"title"`
	Time             string    `json:"time"`
	DueAt            time.Time `json:"due_at"`
	Remaining        string    `json:"remaining"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	Status           Status    `json:"status"`
	Repeat           bool      `json:"repeat,omitempty"`
	Fired            int       `json:"fired,omitempty"`
}

// ViewAt renders r as seen at now.
func (r Reminder) ViewAt(now time.Time) View {
	remaining := r.DueAt.Sub(now)
	if r.Status != StatusActive || remaining < 0 {
		remaining = 0
	}
	return View{
		ID:               r.ID,
		Message:          r.Message,
		Title:            r.Title,
		Time:             r.DueAt.Format(TimeLayout),
		DueAt:            r.DueAt,
		Remaining:        FormatRemaining(remaining),
		RemainingSeconds: int64(remaining / time.Second),
		Status:           r.Status,
		Repeat:           r.Repeat,
		Fired:            r.Fired,
	}
}
