package domain

import "time"

type ScheduledStatus string

const (
	ScheduledPending   ScheduledStatus = "PENDING"
	ScheduledRunning   ScheduledStatus = "RUNNING"
	ScheduledCompleted ScheduledStatus = "COMPLETED"
	ScheduledFailed    ScheduledStatus = "FAILED"
)

// ScheduledMessage is a pending send request. ContactID holds the
// destination address the send was requested for. COMPLETED and FAILED
// are terminal; FAILED jobs are only retried by explicit re-creation.
type ScheduledMessage struct {
	ID          string          `db:"id" json:"id"`
	ThreadID    *string         `db:"thread_id" json:"threadId,omitempty"`
	ContactID   string          `db:"contact_id" json:"contactId"`
	Channel     Channel         `db:"channel" json:"channel"`
	Body        string          `db:"body" json:"body"`
	Media       MediaList       `db:"media" json:"media,omitempty"`
	ScheduledAt time.Time       `db:"scheduled_at" json:"scheduledAt"`
	Status      ScheduledStatus `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// DispatchResult reports the outcome of one dispatched job.
type DispatchResult struct {
	JobID       string
	ProviderSid string
	Success     bool
	Skipped     bool
	Error       error
	SentAt      time.Time
}
