package domain

import "time"

// Thread is a conversation scoped to one contact and one channel. The
// store enforces uniqueness on (contact_id, channel), so lookups never
// have to choose between duplicates.
type Thread struct {
	ID            string     `db:"id" json:"id"`
	ContactID     string     `db:"contact_id" json:"contactId"`
	Channel       Channel    `db:"channel" json:"channel"`
	Unread        bool       `db:"unread" json:"unread"`
	LastMessageAt *time.Time `db:"last_message_at" json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}
