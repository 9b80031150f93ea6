package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ecinar/unified-inbox/environments"
	"github.com/ecinar/unified-inbox/internal/domain"
	"github.com/ecinar/unified-inbox/pkg/logger"
	"github.com/ecinar/unified-inbox/pkg/twilio"
)

type outboundMessageRepository interface {
	CreateOutbound(ctx context.Context, msg *domain.Message) error
	ListByThread(ctx context.Context, threadID string, page, pageSize int) ([]domain.Message, int64, error)
}

type scheduledQueue interface {
	Enqueue(
		ctx context.Context,
		threadID *string,
		contactID string,
		channel domain.Channel,
		body string,
		media domain.MediaList,
		scheduledAt time.Time,
	) (*domain.ScheduledMessage, error)
	ListByThread(ctx context.Context, threadID string) ([]domain.ScheduledMessage, error)
}

type messageSender interface {
	Send(ctx context.Context, from string, req twilio.SendRequest) (*twilio.SendResponse, error)
	SMSFrom() string
	WhatsAppFrom() string
}

// SendMessageInput is a validated send-or-schedule request.
type SendMessageInput struct {
	ThreadID    string
	To          string
	Channel     domain.Channel
	Text        string
	ScheduledAt *time.Time
	MediaURLs   []string
}

// SendOutcome carries either the created message (immediate path) or
// the enqueued job id (scheduled path).
type SendOutcome struct {
	MessageID   string
	ProviderSid string
	ScheduledID string
}

// MessageService handles outbound sends, scheduling, and listings.
type MessageService struct {
	messages  outboundMessageRepository
	scheduled scheduledQueue
	sender    messageSender
	config    environments.DispatchConfig
}

func NewMessageService(
	messages outboundMessageRepository,
	scheduled scheduledQueue,
	sender messageSender,
	config environments.DispatchConfig,
) *MessageService {
	return &MessageService{
		messages:  messages,
		scheduled: scheduled,
		sender:    sender,
		config:    config,
	}
}

// Send delivers a message immediately, or enqueues it when a future
// time is supplied. The scheduled path performs no provider call.
func (s *MessageService) Send(ctx context.Context, in SendMessageInput) (*SendOutcome, error) {
	if in.Channel != domain.ChannelSMS && in.Channel != domain.ChannelWhatsApp {
		return nil, fmt.Errorf("channel %q has no sender implemented", in.Channel)
	}

	if in.ScheduledAt != nil {
		threadID := &in.ThreadID
		job, err := s.scheduled.Enqueue(
			ctx, threadID, in.To, in.Channel, in.Text, domain.MediaList(in.MediaURLs), *in.ScheduledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to schedule message: %w", err)
		}

		logger.Infof("Scheduled %s message %s for %s", in.Channel, job.ID, job.ScheduledAt.Format(time.RFC3339))

		return &SendOutcome{ScheduledID: job.ID}, nil
	}

	from, to := s.addresses(in.Channel, in.To)

	resp, err := s.sender.Send(ctx, from, twilio.SendRequest{
		To:        to,
		Body:      in.Text,
		MediaURLs: in.MediaURLs,
	})
	if err != nil {
		return nil, fmt.Errorf("send failed: %w", err)
	}

	sid := resp.Sid
	msg := &domain.Message{
		ThreadID:  in.ThreadID,
		Direction: domain.DirectionOutbound,
		Channel:   in.Channel,
		Body:      in.Text,
		Media:     domain.MediaList(in.MediaURLs),
		From:      from,
		To:        in.To,
		Status:    domain.MessageStatusSent,
		ChannelMeta: domain.ChannelMeta{
			Kind: domain.MetaKindOutbound,
			Sid:  sid,
		},
		ProviderSid: &sid,
	}

	if err := s.messages.CreateOutbound(ctx, msg); err != nil {
		// The provider accepted the send; surface the persistence gap
		// rather than pretending the message does not exist.
		return nil, fmt.Errorf("message sent (sid %s) but not recorded: %w", sid, err)
	}

	return &SendOutcome{MessageID: msg.ID, ProviderSid: sid}, nil
}

func (s *MessageService) ListByThread(
	ctx context.Context,
	threadID string,
	page, pageSize int,
) ([]domain.Message, int64, error) {
	return s.messages.ListByThread(ctx, threadID, page, pageSize)
}

func (s *MessageService) ListScheduledByThread(
	ctx context.Context,
	threadID string,
) ([]domain.ScheduledMessage, error) {
	return s.scheduled.ListByThread(ctx, threadID)
}

func (s *MessageService) addresses(channel domain.Channel, to string) (string, string) {
	if channel == domain.ChannelWhatsApp {
		return s.sender.WhatsAppFrom(), domain.WhatsAppAddress(to)
	}
	return s.sender.SMSFrom(), to
}
