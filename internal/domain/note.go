package domain

import "time"

// Note is a team annotation on a thread, never delivered anywhere.
type Note struct {
	ID        string    `db:"id" json:"id"`
	ThreadID  string    `db:"thread_id" json:"threadId"`
	AuthorID  string    `db:"author_id" json:"authorId"`
	Content   string    `db:"content" json:"content"`
	IsPrivate bool      `db:"is_private" json:"isPrivate"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
