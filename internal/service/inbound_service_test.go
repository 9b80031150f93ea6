package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ecinar/unified-inbox/environments"
	"github.com/ecinar/unified-inbox/internal/domain"
	"github.com/ecinar/unified-inbox/internal/repository"
)

// fakeInboundMessages is a test double for the message store.
type fakeInboundMessages struct {
	byProviderSid map[string]*domain.Message
	createErr     error
	created       []*domain.Message
}

func (f *fakeInboundMessages) GetByProviderSid(ctx context.Context, sid string) (*domain.Message, error) {
	return f.byProviderSid[sid], nil
}

func (f *fakeInboundMessages) CreateInbound(ctx context.Context, msg *domain.Message) error {
	if f.createErr != nil {
		return f.createErr
	}
	if msg.ID == "" {
		msg.ID = fmt.Sprintf("msg-%d", len(f.created)+1)
	}
	f.created = append(f.created, msg)
	if f.byProviderSid == nil {
		f.byProviderSid = make(map[string]*domain.Message)
	}
	if msg.ProviderSid != nil {
		f.byProviderSid[*msg.ProviderSid] = msg
	}
	return nil
}

type fakeContacts struct {
	byPhone   map[string]*domain.Contact
	createErr error
	creates   int
}

func (f *fakeContacts) GetByPhone(ctx context.Context, phone string) (*domain.Contact, error) {
	return f.byPhone[phone], nil
}

func (f *fakeContacts) CreateWithPhone(ctx context.Context, phone string) (*domain.Contact, error) {
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	contact := &domain.Contact{ID: "contact-" + phone, Phone: &phone}
	if f.byPhone == nil {
		f.byPhone = make(map[string]*domain.Contact)
	}
	f.byPhone[phone] = contact
	return contact, nil
}

type fakeThreads struct {
	byKey     map[string]*domain.Thread
	createErr error
	creates   int
}

func threadKey(contactID string, channel domain.Channel) string {
	return contactID + "|" + string(channel)
}

func (f *fakeThreads) GetByContactAndChannel(
	ctx context.Context,
	contactID string,
	channel domain.Channel,
) (*domain.Thread, error) {
	return f.byKey[threadKey(contactID, channel)], nil
}

func (f *fakeThreads) Create(ctx context.Context, contactID string, channel domain.Channel) (*domain.Thread, error) {
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	thread := &domain.Thread{ID: "thread-" + contactID, ContactID: contactID, Channel: channel}
	if f.byKey == nil {
		f.byKey = make(map[string]*domain.Thread)
	}
	f.byKey[threadKey(contactID, channel)] = thread
	return thread, nil
}

type fakeDedupCache struct {
	entries map[string]string
	lookups int
	stores  int
}

func (f *fakeDedupCache) GetInboundMessageID(ctx context.Context, sid string) (string, error) {
	f.lookups++
	return f.entries[sid], nil
}

func (f *fakeDedupCache) CacheInboundSid(ctx context.Context, sid, messageID string) error {
	f.stores++
	if f.entries == nil {
		f.entries = make(map[string]string)
	}
	f.entries[sid] = messageID
	return nil
}

func testDispatchConfig() environments.DispatchConfig {
	return environments.DispatchConfig{
		BatchSize:     50,
		MaxBodyLength: 1600,
	}
}

func TestIngest_NewContactCreatesEverything(t *testing.T) {
	ctx := context.Background()

	messages := &fakeInboundMessages{}
	contacts := &fakeContacts{}
	threads := &fakeThreads{}
	cache := &fakeDedupCache{}

	svc := NewInboundService(messages, contacts, threads, cache, testDispatchConfig())

	result, err := svc.Ingest(ctx, InboundWebhook{
		From:       "+1 (555) 010-0001",
		To:         "+15550009999",
		Body:       "  Hi, I need help with my order  ",
		MessageSid: "SM123",
	})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if result.Duplicate {
		t.Fatalf("expected Duplicate=false for first delivery")
	}
	if result.MessageID == "" {
		t.Fatalf("expected a message id")
	}

	if contacts.creates != 1 {
		t.Errorf("expected 1 contact create, got %d", contacts.creates)
	}
	if threads.creates != 1 {
		t.Errorf("expected 1 thread create, got %d", threads.creates)
	}
	if len(messages.created) != 1 {
		t.Fatalf("expected 1 message created, got %d", len(messages.created))
	}

	msg := messages.created[0]
	if msg.From != "+15550100001" {
		t.Errorf("expected sanitized from address, got %q", msg.From)
	}
	if msg.Body != "Hi, I need help with my order" {
		t.Errorf("expected trimmed body, got %q", msg.Body)
	}
	if msg.Channel != domain.ChannelSMS {
		t.Errorf("expected SMS channel, got %s", msg.Channel)
	}
	if msg.Direction != domain.DirectionInbound {
		t.Errorf("expected INBOUND direction, got %s", msg.Direction)
	}
	if msg.ChannelMeta.Kind != domain.MetaKindInbound || msg.ChannelMeta.MessageSid != "SM123" {
		t.Errorf("unexpected channel meta: %+v", msg.ChannelMeta)
	}
	if msg.ProviderSid == nil || *msg.ProviderSid != "SM123" {
		t.Errorf("expected provider sid SM123, got %v", msg.ProviderSid)
	}
	if msg.ReceivedAt == nil {
		t.Errorf("expected ReceivedAt to be set")
	}

	if cache.stores != 1 {
		t.Errorf("expected sid to be cached once, got %d", cache.stores)
	}
}

func TestIngest_WhatsAppAddressResolvesChannel(t *testing.T) {
	ctx := context.Background()

	messages := &fakeInboundMessages{}
	threads := &fakeThreads{}
	svc := NewInboundService(messages, &fakeContacts{}, threads, nil, testDispatchConfig())

	_, err := svc.Ingest(ctx, InboundWebhook{
		From:       "whatsapp:+15550100002",
		To:         "whatsapp:+15550009999",
		Body:       "hola",
		MessageSid: "SM456",
	})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	msg := messages.created[0]
	if msg.Channel != domain.ChannelWhatsApp {
		t.Errorf("expected WHATSAPP channel, got %s", msg.Channel)
	}
	// "whatsapp:" must be stripped by sanitization so the contact keys on
	// the bare number.
	if msg.From != "+15550100002" {
		t.Errorf("expected bare phone number, got %q", msg.From)
	}
}

func TestIngest_RedeliverySameSidIsNoOp(t *testing.T) {
	ctx := context.Background()

	messages := &fakeInboundMessages{}
	contacts := &fakeContacts{}
	threads := &fakeThreads{}
	svc := NewInboundService(messages, contacts, threads, nil, testDispatchConfig())

	hook := InboundWebhook{
		From:       "+15550100003",
		To:         "+15550009999",
		Body:       "first",
		MessageSid: "SM789",
	}

	first, err := svc.Ingest(ctx, hook)
	if err != nil {
		t.Fatalf("first Ingest returned error: %v", err)
	}

	second, err := svc.Ingest(ctx, hook)
	if err != nil {
		t.Fatalf("second Ingest returned error: %v", err)
	}

	if !second.Duplicate {
		t.Fatalf("expected Duplicate=true on redelivery")
	}
	if second.MessageID != first.MessageID {
		t.Errorf("expected same message id, got %q vs %q", second.MessageID, first.MessageID)
	}
	if len(messages.created) != 1 {
		t.Errorf("expected exactly 1 stored message, got %d", len(messages.created))
	}
	if contacts.creates != 1 || threads.creates != 1 {
		t.Errorf("expected no extra contact/thread creates, got %d/%d", contacts.creates, threads.creates)
	}
}

func TestIngest_CacheHitSkipsStoreLookup(t *testing.T) {
	ctx := context.Background()

	messages := &fakeInboundMessages{}
	cache := &fakeDedupCache{entries: map[string]string{"SM111": "msg-cached"}}
	svc := NewInboundService(messages, &fakeContacts{}, &fakeThreads{}, cache, testDispatchConfig())

	result, err := svc.Ingest(ctx, InboundWebhook{
		From:       "+15550100004",
		To:         "+15550009999",
		Body:       "again",
		MessageSid: "SM111",
	})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	if !result.Duplicate {
		t.Fatalf("expected Duplicate=true on cache hit")
	}
	if result.MessageID != "msg-cached" {
		t.Errorf("expected cached message id, got %q", result.MessageID)
	}
	if len(messages.created) != 0 {
		t.Errorf("expected no message created on cache hit, got %d", len(messages.created))
	}
}

func TestIngest_UniqueIndexRaceReturnsWinner(t *testing.T) {
	ctx := context.Background()

	// The insert hits the unique index because a concurrent redelivery
	// won the race; the winning row is visible on re-fetch.
	racy := &racyMessages{winner: &domain.Message{ID: "msg-winner"}}

	svc := NewInboundService(racy, &fakeContacts{}, &fakeThreads{}, nil, testDispatchConfig())
	result, err := svc.Ingest(ctx, InboundWebhook{
		From:       "+15550100005",
		To:         "+15550009999",
		Body:       "race",
		MessageSid: "SM222",
	})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	if !result.Duplicate {
		t.Fatalf("expected Duplicate=true after losing the insert race")
	}
	if result.MessageID != "msg-winner" {
		t.Errorf("expected winner's id, got %q", result.MessageID)
	}
}

// racyMessages misses the first sid lookup, fails the insert with a
// duplicate error, then serves the winning row.
type racyMessages struct {
	winner  *domain.Message
	lookups int
}

func (r *racyMessages) GetByProviderSid(ctx context.Context, sid string) (*domain.Message, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, nil
	}
	return r.winner, nil
}

func (r *racyMessages) CreateInbound(ctx context.Context, msg *domain.Message) error {
	return repository.ErrDuplicate
}

func TestIngest_ContactConflictRefetches(t *testing.T) {
	ctx := context.Background()

	phone := "+15550100006"
	existing := &domain.Contact{ID: "contact-existing", Phone: &phone}
	contacts := &conflictingContacts{existing: existing}

	messages := &fakeInboundMessages{}
	svc := NewInboundService(messages, contacts, &fakeThreads{}, nil, testDispatchConfig())

	result, err := svc.Ingest(ctx, InboundWebhook{
		From:       phone,
		To:         "+15550009999",
		Body:       "conflict",
		MessageSid: "SM333",
	})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if result.Duplicate {
		t.Fatalf("expected a fresh ingestion")
	}

	if messages.created[0].ThreadID != "thread-contact-existing" {
		t.Errorf("expected thread resolved against the existing contact, got %q", messages.created[0].ThreadID)
	}
}

// conflictingContacts misses the first lookup, fails the create with a
// duplicate error, then serves the row a concurrent ingestion created.
type conflictingContacts struct {
	existing *domain.Contact
	lookups  int
}

func (c *conflictingContacts) GetByPhone(ctx context.Context, phone string) (*domain.Contact, error) {
	c.lookups++
	if c.lookups == 1 {
		return nil, nil
	}
	return c.existing, nil
}

func (c *conflictingContacts) CreateWithPhone(ctx context.Context, phone string) (*domain.Contact, error) {
	return nil, repository.ErrDuplicate
}

func TestIngest_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()

	messages := &fakeInboundMessages{createErr: errors.New("disk full")}
	svc := NewInboundService(messages, &fakeContacts{}, &fakeThreads{}, nil, testDispatchConfig())

	_, err := svc.Ingest(ctx, InboundWebhook{
		From:       "+15550100007",
		To:         "+15550009999",
		Body:       "boom",
		MessageSid: "SM444",
	})
	if err == nil {
		t.Fatalf("expected error when the store fails")
	}
}

func TestSanitizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+1 (555) 010-0001", "+15550100001"},
		{"whatsapp:+15550100002", "+15550100002"},
		{"555.010.0003", "5550100003"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := SanitizePhone(tc.in); got != tc.want {
			t.Errorf("SanitizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeBody(t *testing.T) {
	if got := SanitizeBody("  hello  ", 1600); got != "hello" {
		t.Errorf("expected trimmed body, got %q", got)
	}

	long := strings.Repeat("x", 2000)
	if got := SanitizeBody(long, 1600); len(got) != 1600 {
		t.Errorf("expected body truncated to 1600, got %d", len(got))
	}

	// Truncation happens before trimming so a cut at a space still trims.
	padded := strings.Repeat("y", 1599) + "  tail"
	if got := SanitizeBody(padded, 1600); len(got) != 1599 {
		t.Errorf("expected trailing space removed after truncation, got %d chars", len(got))
	}
}

func TestSanitizeBody_MultibyteCountsRunesNotBytes(t *testing.T) {
	// 600 chars but 1800 bytes: under the limit, must pass through intact.
	short := strings.Repeat("€", 600)
	if got := SanitizeBody(short, 1600); got != short {
		t.Errorf("expected %d-char body untouched, got %d runes", 600, utf8.RuneCountInString(got))
	}

	// 1700 chars: truncated to 1600 whole characters, never mid-rune.
	long := strings.Repeat("€", 1700)
	got := SanitizeBody(long, 1600)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated body is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(got); n != 1600 {
		t.Errorf("expected 1600 runes, got %d", n)
	}
}

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"€€€", 2, "€€"},
		{"hello", 0, "hello"}, // zero disables the limit
	}

	for _, tc := range cases {
		if got := TruncateRunes(tc.in, tc.maxLen); got != tc.want {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}
