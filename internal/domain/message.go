package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ChannelMeta kinds. The meta payload is a tagged union so dedup lookups
// and job linkage stay statically checkable.
const (
	MetaKindInbound     = "inbound"
	MetaKindOutbound    = "outbound"
	MetaKindOutboundJob = "outbound-job"
)

// ChannelMeta carries provider-side linkage for a message. For inbound
// messages MessageSid is the provider's delivery id (the dedup key); for
// outbound messages Sid is the provider-assigned send id, and JobID links
// a dispatched scheduled job to the message it produced.
type ChannelMeta struct {
	Kind       string `json:"kind"`
	MessageSid string `json:"messageSid,omitempty"`
	Sid        string `json:"sid,omitempty"`
	JobID      string `json:"jobId,omitempty"`
}

// ProviderSid returns the provider message identifier regardless of kind.
func (m ChannelMeta) ProviderSid() string {
	if m.MessageSid != "" {
		return m.MessageSid
	}
	return m.Sid
}

func (m ChannelMeta) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *ChannelMeta) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = ChannelMeta{}
		return nil
	default:
		return fmt.Errorf("unsupported channel_meta type %T", src)
	}
}

// MediaList is a JSON-encoded list of media URLs.
type MediaList []string

func (l MediaList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

func (l *MediaList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("unsupported media type %T", src)
	}
}

const MessageStatusSent = "SENT"

// Message is an immutable record of one sent or received communication.
// ProviderSid mirrors ChannelMeta's provider id into a uniquely indexed
// column so redelivered webhooks dedup at the store level.
type Message struct {
	ID          string      `db:"id" json:"id"`
	ThreadID    string      `db:"thread_id" json:"threadId"`
	Direction   Direction   `db:"direction" json:"direction"`
	Channel     Channel     `db:"channel" json:"channel"`
	Body        string      `db:"body" json:"body"`
	Media       MediaList   `db:"media" json:"media,omitempty"`
	From        string      `db:"from_addr" json:"from"`
	To          string      `db:"to_addr" json:"to"`
	Status      string      `db:"status" json:"status"`
	ChannelMeta ChannelMeta `db:"channel_meta" json:"channelMeta"`
	ProviderSid *string     `db:"provider_sid" json:"-"`
	ReceivedAt  *time.Time  `db:"received_at" json:"receivedAt,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}
