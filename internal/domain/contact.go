package domain

import "time"

// Contact is the identity of a communicating party. Created lazily on
// first inbound message or explicitly via the contacts API; at least one
// of phone/email is required at the API boundary.
type Contact struct {
	ID        string    `db:"id" json:"id"`
	Name      *string   `db:"name" json:"name,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ContactWithThread pairs a contact with its most recent thread for the
// contacts listing.
type ContactWithThread struct {
	Contact
	LatestThreadID *string    `db:"latest_thread_id" json:"latestThreadId,omitempty"`
	LatestChannel  *Channel   `db:"latest_channel" json:"latestChannel,omitempty"`
	LastMessageAt  *time.Time `db:"last_message_at" json:"lastMessageAt,omitempty"`
}

// ContactDetail is a single contact with all of its threads, as served
// by the contact detail endpoint.
type ContactDetail struct {
	Contact
	Threads []Thread `json:"threads"`
}
