package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ecinar/unified-inbox/internal/domain"
)

type analyticsMessageRepository interface {
	CountAll(ctx context.Context) (int64, error)
	CountByChannel(ctx context.Context) ([]domain.ChannelCount, error)
	CountByDay(ctx context.Context, since time.Time) ([]domain.DailyCount, error)
}

type analyticsContactRepository interface {
	CountAll(ctx context.Context) (int64, error)
}

// AnalyticsService produces the dashboard's aggregate counters.
type AnalyticsService struct {
	messages analyticsMessageRepository
	contacts analyticsContactRepository
}

func NewAnalyticsService(
	messages analyticsMessageRepository,
	contacts analyticsContactRepository,
) *AnalyticsService {
	return &AnalyticsService{messages: messages, contacts: contacts}
}

func (s *AnalyticsService) Summary(ctx context.Context) (*domain.AnalyticsSummary, error) {
	totalMessages, err := s.messages.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	totalContacts, err := s.contacts.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}

	byChannel, err := s.messages.CountByChannel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages by channel: %w", err)
	}

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	overTime, err := s.messages.CountByDay(ctx, sevenDaysAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages over time: %w", err)
	}

	return &domain.AnalyticsSummary{
		TotalMessages:     totalMessages,
		TotalContacts:     totalContacts,
		MessagesByChannel: byChannel,
		MessagesOverTime:  overTime,
	}, nil
}
