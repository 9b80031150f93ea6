package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ecinar/unified-inbox/environments"
	"github.com/ecinar/unified-inbox/internal/domain"
	"github.com/ecinar/unified-inbox/internal/repository"
	"github.com/ecinar/unified-inbox/pkg/logger"
)

// Small internal interfaces so we can test without touching real DB/Redis.
type inboundMessageRepository interface {
	GetByProviderSid(ctx context.Context, providerSid string) (*domain.Message, error)
	CreateInbound(ctx context.Context, msg *domain.Message) error
}

type contactStore interface {
	GetByPhone(ctx context.Context, phone string) (*domain.Contact, error)
	CreateWithPhone(ctx context.Context, phone string) (*domain.Contact, error)
}

type threadStore interface {
	GetByContactAndChannel(ctx context.Context, contactID string, channel domain.Channel) (*domain.Thread, error)
	Create(ctx context.Context, contactID string, channel domain.Channel) (*domain.Thread, error)
}

type dedupCache interface {
	GetInboundMessageID(ctx context.Context, providerSid string) (string, error)
	CacheInboundSid(ctx context.Context, providerSid, messageID string) error
}

// InboundWebhook is the validated payload of one provider webhook call.
type InboundWebhook struct {
	From       string
	To         string
	Body       string
	MessageSid string
}

// IngestResult reports the stored message id; Duplicate marks a
// redelivery that resolved to an earlier ingestion.
type IngestResult struct {
	MessageID string
	Duplicate bool
}

// InboundService ingests provider webhooks: dedup, sanitize, resolve
// contact and thread, persist.
type InboundService struct {
	messages inboundMessageRepository
	contacts contactStore
	threads  threadStore
	cache    dedupCache
	config   environments.DispatchConfig
}

func NewInboundService(
	messages inboundMessageRepository,
	contacts contactStore,
	threads threadStore,
	cache dedupCache,
	config environments.DispatchConfig,
) *InboundService {
	return &InboundService{
		messages: messages,
		contacts: contacts,
		threads:  threads,
		cache:    cache,
		config:   config,
	}
}

// Ingest processes one authenticated, shape-valid webhook payload.
// Redelivery of an already-ingested provider sid is a no-op returning
// the original message id.
func (s *InboundService) Ingest(ctx context.Context, hook InboundWebhook) (*IngestResult, error) {
	// Dedup fast path via cache, then the store itself.
	if s.cache != nil {
		if cachedID, err := s.cache.GetInboundMessageID(ctx, hook.MessageSid); err != nil {
			logger.Warnf("Dedup cache lookup failed for sid %s: %v", hook.MessageSid, err)
		} else if cachedID != "" {
			logger.Debugf("Webhook sid %s already ingested (cache hit)", hook.MessageSid)
			return &IngestResult{MessageID: cachedID, Duplicate: true}, nil
		}
	}

	existing, err := s.messages.GetByProviderSid(ctx, hook.MessageSid)
	if err != nil {
		return nil, fmt.Errorf("failed dedup lookup: %w", err)
	}
	if existing != nil {
		logger.Debugf("Webhook sid %s already ingested as message %s", hook.MessageSid, existing.ID)
		return &IngestResult{MessageID: existing.ID, Duplicate: true}, nil
	}

	from := SanitizePhone(hook.From)
	body := SanitizeBody(hook.Body, s.config.MaxBodyLength)
	channel := domain.ChannelFromAddress(hook.To)

	contact, err := s.resolveContact(ctx, from)
	if err != nil {
		return nil, err
	}

	thread, err := s.resolveThread(ctx, contact.ID, channel)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sid := hook.MessageSid
	msg := &domain.Message{
		ThreadID:  thread.ID,
		Direction: domain.DirectionInbound,
		Channel:   channel,
		Body:      body,
		From:      from,
		To:        hook.To,
		Status:    "RECEIVED",
		ChannelMeta: domain.ChannelMeta{
			Kind:       domain.MetaKindInbound,
			MessageSid: sid,
		},
		ProviderSid: &sid,
		ReceivedAt:  &now,
	}

	if err := s.messages.CreateInbound(ctx, msg); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// A concurrent redelivery won the unique index race.
			winner, lookupErr := s.messages.GetByProviderSid(ctx, sid)
			if lookupErr != nil {
				return nil, fmt.Errorf("failed to re-fetch after duplicate ingest: %w", lookupErr)
			}
			if winner != nil {
				return &IngestResult{MessageID: winner.ID, Duplicate: true}, nil
			}
		}
		return nil, fmt.Errorf("failed to persist inbound message: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.CacheInboundSid(ctx, sid, msg.ID); err != nil {
			logger.Warnf("Failed to cache inbound sid %s: %v", sid, err)
		}
	}

	logger.Infof("Ingested inbound %s message %s (sid: %s, thread: %s)", channel, msg.ID, sid, thread.ID)

	return &IngestResult{MessageID: msg.ID}, nil
}

// resolveContact finds the contact owning a phone number, creating one
// on first contact. A unique-constraint conflict means a concurrent
// ingestion created it first, so re-fetch instead of failing.
func (s *InboundService) resolveContact(ctx context.Context, phone string) (*domain.Contact, error) {
	contact, err := s.contacts.GetByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up contact: %w", err)
	}
	if contact != nil {
		return contact, nil
	}

	contact, err = s.contacts.CreateWithPhone(ctx, phone)
	if err == nil {
		return contact, nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	contact, err = s.contacts.GetByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to re-fetch contact after conflict: %w", err)
	}
	if contact == nil {
		return nil, fmt.Errorf("contact for %s vanished after duplicate conflict", phone)
	}

	return contact, nil
}

func (s *InboundService) resolveThread(
	ctx context.Context,
	contactID string,
	channel domain.Channel,
) (*domain.Thread, error) {
	thread, err := s.threads.GetByContactAndChannel(ctx, contactID, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to look up thread: %w", err)
	}
	if thread != nil {
		return thread, nil
	}

	thread, err = s.threads.Create(ctx, contactID, channel)
	if err == nil {
		return thread, nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	thread, err = s.threads.GetByContactAndChannel(ctx, contactID, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to re-fetch thread after conflict: %w", err)
	}
	if thread == nil {
		return nil, fmt.Errorf("thread for contact %s vanished after duplicate conflict", contactID)
	}

	return thread, nil
}

// SanitizePhone strips everything but digits and the leading plus.
func SanitizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeBody truncates to maxLen characters and trims surrounding
// whitespace. The limit counts runes, not bytes, so multibyte text is
// never cut mid-character.
func SanitizeBody(raw string, maxLen int) string {
	raw = TruncateRunes(raw, maxLen)
	return strings.TrimSpace(raw)
}

// TruncateRunes cuts a string to at most maxLen runes.
func TruncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == maxLen {
			return s[:i]
		}
		count++
	}
	return s
}
