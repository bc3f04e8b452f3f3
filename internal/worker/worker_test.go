package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"media-courier-be/internal/entity"
	"media-courier-be/internal/pkg/logger"
	"media-courier-be/pkg/fetch"
	"media-courier-be/pkg/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessenger struct {
	statusEdits []string
	videos      []sentVideo
	animations  []sentAnimation
	texts       []string
	sendErr     error
	sendPanic   bool
}

type sentVideo struct {
	path, caption string
	width, height int
}

type sentAnimation struct {
	path, caption string
}

func (m *fakeMessenger) EditStatus(ctx context.Context, chatId, messageRef int64, text string) error {
	m.statusEdits = append(m.statusEdits, text)
	return nil
}

func (m *fakeMessenger) SendVideo(ctx context.Context, chatId int64, path, caption string, width, height int) error {
	if m.sendPanic {
		panic("transport blew up")
	}
	if m.sendErr != nil {
		return m.sendErr
	}
	m.videos = append(m.videos, sentVideo{path, caption, width, height})
	return nil
}

func (m *fakeMessenger) SendAnimation(ctx context.Context, chatId int64, path, caption string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.animations = append(m.animations, sentAnimation{path, caption})
	return nil
}

func (m *fakeMessenger) SendText(ctx context.Context, chatId int64, text string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.texts = append(m.texts, text)
	return nil
}

// fakeFetcher plays back a scripted sequence of errors before succeeding
// with a freshly written file.
type fakeFetcher struct {
	t           *testing.T
	errs        []error
	calls       int
	fileSize    int
	description string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*fetch.Result, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	dir, err := os.MkdirTemp("", "worker_test_")
	require.NoError(f.t, err)
	path := filepath.Join(dir, "video.mp4")
	require.NoError(f.t, os.WriteFile(path, make([]byte, f.fileSize), 0o644))
	return &fetch.Result{Path: path, Description: f.description}, nil
}

type fakeLedger struct {
	usage      *entity.Usage
	usageErr   error
	deductions int
}

func (l *fakeLedger) GetOrCreateUser(context.Context, int64, int64) (*entity.User, error) {
	return nil, nil
}
func (l *fakeLedger) IsExempt(context.Context, int64) (bool, error)    { return false, nil }
func (l *fakeLedger) GetBalance(context.Context, int64) (int, error)   { return 0, nil }
func (l *fakeLedger) CanDownload(context.Context, int64) (bool, error) { return true, nil }

func (l *fakeLedger) RecordUsage(context.Context, int64, string, float64) (*entity.Usage, error) {
	return l.usage, l.usageErr
}

func (l *fakeLedger) DeductBalance(context.Context, int64) (bool, error) {
	l.deductions++
	return true, nil
}

func (l *fakeLedger) GetPlans(context.Context) ([]*entity.Plan, error) { return nil, nil }
func (l *fakeLedger) GetPlanBySlug(context.Context, string) (*entity.Plan, error) {
	return nil, nil
}
func (l *fakeLedger) CreateRecharge(context.Context, int64, int64, string) (*entity.Recharge, *gateway.ChargeHandle, error) {
	return nil, nil, nil
}
func (l *fakeLedger) ConfirmRecharge(context.Context, string) (bool, error) { return false, nil }
func (l *fakeLedger) UsageCount(context.Context, int64) (int64, error)      { return 0, nil }
func (l *fakeLedger) UsageHistory(context.Context, int64, int) ([]*entity.Usage, error) {
	return nil, nil
}
func (l *fakeLedger) TotalRechargedCents(context.Context, int64) (int64, error) { return 0, nil }
func (l *fakeLedger) WhitelistAdd(context.Context, int64, string) (bool, error) { return true, nil }
func (l *fakeLedger) WhitelistRemove(context.Context, int64) (bool, error)      { return false, nil }

type fakeWorkerLimiter struct {
	increments int
}

func (l *fakeWorkerLimiter) GetCount(context.Context, int64) int    { return 0 }
func (l *fakeWorkerLimiter) Increment(context.Context, int64)       { l.increments++ }
func (l *fakeWorkerLimiter) CanProceed(context.Context, int64) bool { return true }

type fakeConverter struct {
	t       *testing.T
	gifSize int
	err     error
}

func (c *fakeConverter) ToAnimation(ctx context.Context, videoPath string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	path := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".gif"
	require.NoError(c.t, os.WriteFile(path, make([]byte, c.gifSize), 0o644))
	return path, nil
}

func (c *fakeConverter) Dimensions(ctx context.Context, videoPath string) (int, int, error) {
	return 720, 1280, nil
}

type fakePublisher struct {
	published []string
}

func (p *fakePublisher) Publish(path string) (string, error) {
	p.published = append(p.published, path)
	_ = os.Remove(path)
	return "abc123", nil
}

func (p *fakePublisher) URL(fileId string) string {
	return "http://localhost:8080/download/" + fileId
}

type fixture struct {
	worker    *Worker
	messenger *fakeMessenger
	fetcher   *fakeFetcher
	ledger    *fakeLedger
	limiter   *fakeWorkerLimiter
	publisher *fakePublisher
	sleeps    []time.Duration
}

func newFixture(t *testing.T, opts Options, mutate ...func(*fixture)) *fixture {
	t.Helper()
	f := &fixture{
		messenger: &fakeMessenger{},
		fetcher:   &fakeFetcher{t: t, fileSize: 100, description: "a recipe video"},
		ledger:    &fakeLedger{usage: &entity.Usage{Id: 1}},
		limiter:   &fakeWorkerLimiter{},
		publisher: &fakePublisher{},
	}
	for _, m := range mutate {
		m(f)
	}
	if opts.Policy.SmallLimit == 0 {
		opts.Policy.SmallLimit = 1024
	}
	f.worker = New(nil, f.messenger, f.fetcher, f.ledger, f.limiter, nil, &fakeConverter{t: t, gifSize: 10}, f.publisher, opts, logger.Noop{})
	f.worker.sleep = func(d time.Duration) { f.sleeps = append(f.sleeps, d) }
	return f
}

func testJob() *entity.Job {
	return &entity.Job{ChatId: 10, StatusMessageRef: 55, SourceURL: "https://instagram.com/reel/abc", RequesterId: 10}
}

func TestDirectSendHappyPath(t *testing.T) {
	f := newFixture(t, Options{})
	f.worker.handle(context.Background(), testJob())

	require.Len(t, f.messenger.videos, 1)
	sent := f.messenger.videos[0]
	assert.True(t, strings.HasPrefix(sent.caption, "[P0001]\n\n"), "caption carries the usage tag: %q", sent.caption)
	assert.Contains(t, sent.caption, "a recipe video")
	assert.Equal(t, 720, sent.width)
	assert.Equal(t, 1280, sent.height)

	assert.Equal(t, 1, f.ledger.deductions)
	assert.Equal(t, 1, f.limiter.increments)
	assert.Equal(t, []string{msgSending, msgSent}, f.messenger.statusEdits)
	assert.NoFileExists(t, sent.path, "delivered file is cleaned up")
}

func TestUsageTagIsZeroPadded(t *testing.T) {
	f := newFixture(t, Options{}, func(f *fixture) {
		f.ledger.usage = &entity.Usage{Id: 42}
	})
	f.worker.handle(context.Background(), testJob())

	require.Len(t, f.messenger.videos, 1)
	assert.True(t, strings.HasPrefix(f.messenger.videos[0].caption, "[P0042]\n\n"))
}

func TestRetryBackoffSequence(t *testing.T) {
	throttled := errors.New("HTTP Error 429: Too Many Requests")
	f := newFixture(t, Options{BackoffBase: 5 * time.Second}, func(f *fixture) {
		f.fetcher.errs = []error{throttled, throttled}
	})
	f.worker.handle(context.Background(), testJob())

	assert.Equal(t, []time.Duration{5 * time.Second, 15 * time.Second}, f.sleeps)
	assert.Equal(t, 3, f.fetcher.calls)
	require.Len(t, f.messenger.videos, 1, "third attempt succeeds")
}

func TestRetriesExhausted(t *testing.T) {
	throttled := errors.New("rate-limit reached")
	f := newFixture(t, Options{BackoffBase: 5 * time.Second}, func(f *fixture) {
		f.fetcher.errs = []error{throttled, throttled, throttled}
	})
	f.worker.handle(context.Background(), testJob())

	assert.Len(t, f.sleeps, 2, "no sleep after the final attempt")
	assert.Equal(t, []string{msgDownloadFailed}, f.messenger.statusEdits)
	assert.Empty(t, f.messenger.videos)
	assert.Zero(t, f.ledger.deductions)
}

func TestNoVideoIsTerminal(t *testing.T) {
	f := newFixture(t, Options{}, func(f *fixture) {
		f.fetcher.errs = []error{fetch.ErrNoVideo}
	})
	f.worker.handle(context.Background(), testJob())

	assert.Equal(t, 1, f.fetcher.calls, "no retry for a post without video")
	assert.Empty(t, f.sleeps)
	assert.Equal(t, []string{msgNoVideo}, f.messenger.statusEdits)
}

func TestPermanentErrorNoRetry(t *testing.T) {
	f := newFixture(t, Options{}, func(f *fixture) {
		f.fetcher.errs = []error{errors.New("private account")}
	})
	f.worker.handle(context.Background(), testJob())

	assert.Equal(t, 1, f.fetcher.calls)
	assert.Empty(t, f.sleeps)
	assert.Equal(t, []string{msgDownloadFailed}, f.messenger.statusEdits)
}

func TestNoEntitlementAbortsBeforeDelivery(t *testing.T) {
	f := newFixture(t, Options{}, func(f *fixture) {
		f.ledger.usage = nil
	})
	f.worker.handle(context.Background(), testJob())

	assert.Equal(t, []string{msgNoBalance}, f.messenger.statusEdits)
	assert.Empty(t, f.messenger.videos)
	assert.Zero(t, f.ledger.deductions)
	assert.Zero(t, f.limiter.increments)
}

func TestDeliveryFailureDoesNotCharge(t *testing.T) {
	f := newFixture(t, Options{}, func(f *fixture) {
		f.messenger.sendErr = errors.New("upload timed out")
	})
	f.worker.handle(context.Background(), testJob())

	assert.Zero(t, f.ledger.deductions, "failed delivery must not cost a post")
	assert.Zero(t, f.limiter.increments)
	assert.Equal(t, []string{msgSending, msgGenericError}, f.messenger.statusEdits)
}

func TestCaptionTruncation(t *testing.T) {
	f := newFixture(t, Options{MaxCaptionLength: 100}, func(f *fixture) {
		f.fetcher.description = strings.Repeat("x", 500)
	})
	f.worker.handle(context.Background(), testJob())

	require.Len(t, f.messenger.videos, 1)
	caption := f.messenger.videos[0].caption
	assert.Len(t, caption, 100)
	assert.True(t, strings.HasSuffix(caption, "..."))
	assert.True(t, strings.HasPrefix(caption, "[P0001]"))
}

func TestCaptionTruncationKeepsValidUTF8(t *testing.T) {
	f := newFixture(t, Options{MaxCaptionLength: 100}, func(f *fixture) {
		f.fetcher.description = strings.Repeat("ã", 500)
	})
	f.worker.handle(context.Background(), testJob())

	require.Len(t, f.messenger.videos, 1)
	caption := f.messenger.videos[0].caption
	assert.LessOrEqual(t, len(caption), 100)
	assert.True(t, utf8.ValidString(caption), "truncation must not split a rune")
	assert.True(t, strings.HasSuffix(caption, "..."))
}

func TestTruncateCaptionRuneBoundary(t *testing.T) {
	s := strings.Repeat("ã", 1024)
	out := truncateCaption(s, 1024)
	assert.LessOrEqual(t, len(out), 1024)
	assert.True(t, utf8.ValidString(out))

	// ASCII input still lands exactly on the byte limit.
	out = truncateCaption(strings.Repeat("x", 2000), 1024)
	assert.Len(t, out, 1024)
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestAnimatedFallback(t *testing.T) {
	f := newFixture(t, Options{Policy: SizePolicy{SmallLimit: 50}})
	f.worker.handle(context.Background(), testJob())

	require.Len(t, f.messenger.animations, 1)
	sent := f.messenger.animations[0]
	assert.Contains(t, sent.caption, "Vídeo original: https://instagram.com/reel/abc")
	assert.Equal(t, 1, f.ledger.deductions)
	assert.Equal(t, []string{msgConverting, msgSentAsGif}, f.messenger.statusEdits)
	assert.NoFileExists(t, sent.path)
}

func TestAnimatedResultStillTooLarge(t *testing.T) {
	f := newFixture(t, Options{Policy: SizePolicy{SmallLimit: 50}})
	f.worker.converter = &fakeConverter{t: t, gifSize: 500}
	f.worker.handle(context.Background(), testJob())

	assert.Empty(t, f.messenger.animations)
	assert.Zero(t, f.ledger.deductions)
	assert.Equal(t, []string{msgConverting, msgConversionFailed}, f.messenger.statusEdits)
}

func TestConversionFailure(t *testing.T) {
	f := newFixture(t, Options{Policy: SizePolicy{SmallLimit: 50}})
	f.worker.converter = &fakeConverter{t: t, err: errors.New("ffmpeg exploded")}
	f.worker.handle(context.Background(), testJob())

	assert.Equal(t, []string{msgConverting, msgConversionFailed}, f.messenger.statusEdits)
	assert.Zero(t, f.ledger.deductions)
}

func TestHostedLinkDelivery(t *testing.T) {
	f := newFixture(t, Options{Policy: SizePolicy{SmallLimit: 50, HostingEnabled: true}})
	f.worker.handle(context.Background(), testJob())

	require.Len(t, f.publisher.published, 1)
	require.Len(t, f.messenger.texts, 1)
	assert.Contains(t, f.messenger.texts[0], "http://localhost:8080/download/abc123")
	assert.Equal(t, 1, f.ledger.deductions)
	assert.Equal(t, []string{msgLinkReady}, f.messenger.statusEdits)
}

func TestLargeTransportSendsDirect(t *testing.T) {
	f := newFixture(t, Options{Policy: SizePolicy{SmallLimit: 50, LargeLimit: 200, LargeEnabled: true}})
	f.worker.handle(context.Background(), testJob())

	require.Len(t, f.messenger.videos, 1, "a file under the large limit still goes out inline")
	assert.Empty(t, f.messenger.animations)
	assert.Empty(t, f.publisher.published)
	assert.Equal(t, 1, f.ledger.deductions)
	assert.Equal(t, []string{msgSending, msgSent}, f.messenger.statusEdits)
}

func TestRejectTooLarge(t *testing.T) {
	f := newFixture(t, Options{Policy: SizePolicy{SmallLimit: 10, LargeLimit: 50, LargeEnabled: true}})
	f.worker.handle(context.Background(), testJob())

	assert.Equal(t, []string{msgTooLarge}, f.messenger.statusEdits)
	assert.Empty(t, f.messenger.videos)
	assert.Empty(t, f.messenger.animations)
	assert.Zero(t, f.ledger.deductions)
}

func TestPanicInDeliveryIsContained(t *testing.T) {
	f := newFixture(t, Options{}, func(f *fixture) {
		f.messenger.sendPanic = true
	})

	assert.NotPanics(t, func() {
		f.worker.handle(context.Background(), testJob())
	})
	assert.Equal(t, msgGenericError, f.messenger.statusEdits[len(f.messenger.statusEdits)-1])
}
