package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/ecinar/unified-inbox/environments"
	"github.com/ecinar/unified-inbox/internal/domain"
	"github.com/ecinar/unified-inbox/pkg/logger"
	"github.com/ecinar/unified-inbox/pkg/twilio"
)

type scheduledStore interface {
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledMessage, error)
	Transition(ctx context.Context, id string, fromStatus, toStatus domain.ScheduledStatus) (bool, error)
	ReclaimStuck(ctx context.Context, olderThan time.Time) (int64, error)
}

type dispatchMessageRepository interface {
	CreateOutbound(ctx context.Context, msg *domain.Message) error
}

// DispatchService processes due scheduled messages. One invocation
// claims a bounded batch; the per-job conditional status transition is
// what keeps overlapping invocations from double-sending.
type DispatchService struct {
	scheduled scheduledStore
	messages  dispatchMessageRepository
	sender    messageSender
	config    environments.DispatchConfig
}

func NewDispatchService(
	scheduled scheduledStore,
	messages dispatchMessageRepository,
	sender messageSender,
	config environments.DispatchConfig,
) *DispatchService {
	return &DispatchService{
		scheduled: scheduled,
		messages:  messages,
		sender:    sender,
		config:    config,
	}
}

// ProcessDue runs one dispatch pass and returns a result per claimed
// job. A failing job never aborts its siblings.
func (s *DispatchService) ProcessDue(ctx context.Context) ([]domain.DispatchResult, error) {
	now := time.Now()

	reclaimed, err := s.scheduled.ReclaimStuck(ctx, now.Add(-s.config.RunningGrace))
	if err != nil {
		logger.Errorf("Failed to reclaim stuck jobs: %v", err)
	} else if reclaimed > 0 {
		logger.Warnf("Requeued %d jobs stuck in RUNNING for over %v", reclaimed, s.config.RunningGrace)
	}

	jobs, err := s.scheduled.ClaimDue(ctx, now, s.config.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to claim due jobs: %w", err)
	}

	if len(jobs) == 0 {
		logger.Debugf("No due scheduled messages to dispatch")
		return nil, nil
	}

	logger.Infof("Dispatching %d due scheduled messages", len(jobs))

	results := make([]domain.DispatchResult, 0, len(jobs))
	for _, job := range jobs {
		results = append(results, s.dispatchJob(ctx, &job, now))
	}

	return results, nil
}

func (s *DispatchService) dispatchJob(
	ctx context.Context,
	job *domain.ScheduledMessage,
	now time.Time,
) domain.DispatchResult {
	result := domain.DispatchResult{
		JobID:  job.ID,
		SentAt: now,
	}

	// Guard against clock skew between claim and process: a job claimed
	// early must not fire early.
	if job.ScheduledAt.After(now) {
		result.Skipped = true
		return result
	}

	claimed, err := s.scheduled.Transition(ctx, job.ID, domain.ScheduledPending, domain.ScheduledRunning)
	if err != nil {
		logger.Errorf("Failed to claim job %s: %v", job.ID, err)
		result.Error = err
		return result
	}
	if !claimed {
		// A concurrent invocation got here first.
		logger.Debugf("Job %s no longer PENDING, skipping", job.ID)
		result.Skipped = true
		return result
	}

	body := job.Body
	if s.config.MaxBodyLength > 0 && utf8.RuneCountInString(body) > s.config.MaxBodyLength {
		logger.Warnf("Job %s body exceeds max length (%d > %d chars), truncating",
			job.ID, utf8.RuneCountInString(body), s.config.MaxBodyLength)
		body = TruncateRunes(body, s.config.MaxBodyLength)
	}

	from, to := s.addresses(job.Channel, job.ContactID)

	sendCtx, cancel := context.WithTimeout(ctx, s.config.SendTimeout)
	resp, err := s.sender.Send(sendCtx, from, twilio.SendRequest{
		To:        to,
		Body:      body,
		MediaURLs: job.Media,
	})
	cancel()

	if err != nil {
		logger.Errorf("Failed to send job %s: %v", job.ID, err)
		s.failJob(ctx, job.ID)
		result.Error = err
		return result
	}

	if job.ThreadID != nil {
		sid := resp.Sid
		msg := &domain.Message{
			ThreadID:  *job.ThreadID,
			Direction: domain.DirectionOutbound,
			Channel:   job.Channel,
			Body:      body,
			Media:     job.Media,
			From:      from,
			To:        to,
			Status:    domain.MessageStatusSent,
			ChannelMeta: domain.ChannelMeta{
				Kind:  domain.MetaKindOutboundJob,
				JobID: job.ID,
				Sid:   sid,
			},
			ProviderSid: &sid,
		}

		if err := s.messages.CreateOutbound(ctx, msg); err != nil {
			logger.Errorf("Job %s sent (sid %s) but message not recorded: %v", job.ID, resp.Sid, err)
			s.failJob(ctx, job.ID)
			result.Error = err
			return result
		}
	}

	completed, err := s.scheduled.Transition(ctx, job.ID, domain.ScheduledRunning, domain.ScheduledCompleted)
	if err != nil {
		logger.Errorf("Failed to complete job %s: %v", job.ID, err)
		result.Error = err
		return result
	}
	if !completed {
		logger.Warnf("Job %s was no longer RUNNING at completion", job.ID)
	}

	logger.Infof("Dispatched job %s (sid: %s)", job.ID, resp.Sid)

	result.Success = true
	result.ProviderSid = resp.Sid

	return result
}

// failJob moves a claimed job to its terminal failure state. FAILED jobs
// are never retried automatically.
func (s *DispatchService) failJob(ctx context.Context, id string) {
	if _, err := s.scheduled.Transition(ctx, id, domain.ScheduledRunning, domain.ScheduledFailed); err != nil {
		logger.Errorf("Failed to mark job %s as failed: %v", id, err)
	}
}

func (s *DispatchService) addresses(channel domain.Channel, destination string) (string, string) {
	if channel == domain.ChannelWhatsApp {
		return s.sender.WhatsAppFrom(), domain.WhatsAppAddress(destination)
	}
	return s.sender.SMSFrom(), destination
}
