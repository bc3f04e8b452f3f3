package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"media-courier-be/internal/entity"
	"media-courier-be/internal/pkg/logger"
	"media-courier-be/internal/queue"
	"media-courier-be/internal/service"
	"media-courier-be/pkg/caption"
	"media-courier-be/pkg/fetch"
)

// Captioner produces a caption for a downloaded video. Optional; a nil
// Captioner means the raw post description is used as-is.
type Captioner interface {
	Summary(ctx context.Context, videoPath, description string) (string, error)
}

// Converter turns a video into an inline-deliverable animation and probes
// display dimensions.
type Converter interface {
	ToAnimation(ctx context.Context, videoPath string) (string, error)
	Dimensions(ctx context.Context, videoPath string) (width, height int, err error)
}

// Publisher moves a file into temporary hosting and returns its public URL.
type Publisher interface {
	Publish(path string) (fileId string, err error)
	URL(fileId string) string
}

// Options carries the tunables of a single worker.
type Options struct {
	Policy           SizePolicy
	MaxAttempts      int
	BackoffBase      time.Duration
	MaxCaptionLength int
}

// Worker drains the download queue one job at a time: fetch with retry,
// caption, check entitlement, deliver by size, then charge. The balance is
// only deducted after a delivery succeeded; a crash mid-job costs the
// requester nothing.
type Worker struct {
	consumer  queue.Consumer
	messenger Messenger
	fetcher   fetch.Fetcher
	ledger    service.ILedgerService
	limiter   service.IRateLimitService
	captioner Captioner
	converter Converter
	publisher Publisher
	opts      Options
	log       logger.ILogger

	// sleep is swappable so retry backoff is observable in tests.
	sleep func(time.Duration)
}

func New(
	consumer queue.Consumer,
	messenger Messenger,
	fetcher fetch.Fetcher,
	ledger service.ILedgerService,
	limiter service.IRateLimitService,
	captioner Captioner,
	converter Converter,
	publisher Publisher,
	opts Options,
	log logger.ILogger,
) *Worker {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = 5 * time.Second
	}
	if opts.MaxCaptionLength <= 0 {
		opts.MaxCaptionLength = 1024
	}
	return &Worker{
		consumer:  consumer,
		messenger: messenger,
		fetcher:   fetcher,
		ledger:    ledger,
		limiter:   limiter,
		captioner: captioner,
		converter: converter,
		publisher: publisher,
		opts:      opts,
		log:       log,
		sleep:     time.Sleep,
	}
}

// Run consumes jobs until the context is cancelled. Queue infrastructure
// errors are logged and retried after a pause rather than crashing the loop.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("worker", "download worker started", nil)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker", "download worker stopped", nil)
			return
		default:
		}

		job, err := w.consumer.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				w.log.Info("worker", "download worker stopped", nil)
				return
			}
			w.log.Error("worker", "queue pop failed", map[string]interface{}{"error": err.Error()})
			w.sleep(2 * time.Second)
			continue
		}
		if job == nil {
			continue
		}
		w.handle(ctx, job)
	}
}

// handle shields the loop from a panicking job.
func (w *Worker) handle(ctx context.Context, job *entity.Job) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("worker", "panic while processing job", map[string]interface{}{
				"chat_id": job.ChatId,
				"panic":   fmt.Sprint(r),
			})
			w.editStatus(ctx, job, msgGenericError)
		}
	}()
	w.processJob(ctx, job)
}

func (w *Worker) processJob(ctx context.Context, job *entity.Job) {
	result, err := w.download(ctx, job.SourceURL)
	if err == fetch.ErrNoVideo {
		w.editStatus(ctx, job, msgNoVideo)
		return
	}
	if err != nil || result == nil || !fileExists(result.Path) {
		if err != nil {
			w.log.Error("worker", "download failed", map[string]interface{}{
				"url":   job.SourceURL,
				"error": err.Error(),
			})
		}
		w.editStatus(ctx, job, msgDownloadFailed)
		return
	}
	videoPath := result.Path
	defer removeWithParent(videoPath)

	captionText := w.buildCaption(ctx, job, videoPath, result.Description)

	// Entitlement gate. The usage row id goes into the caption, but the
	// balance is not touched until delivery succeeds.
	usage, err := w.ledger.RecordUsage(ctx, job.RequesterId, job.SourceURL, 0)
	if err != nil {
		w.log.Error("worker", "record usage failed", map[string]interface{}{
			"requester_id": job.RequesterId,
			"error":        err.Error(),
		})
		w.editStatus(ctx, job, msgGenericError)
		return
	}
	if usage == nil {
		w.editStatus(ctx, job, msgNoBalance)
		return
	}

	captionText = fmt.Sprintf("[P%04d]\n\n", usage.Id) + captionText
	captionText = truncateCaption(captionText, w.opts.MaxCaptionLength)

	info, err := os.Stat(videoPath)
	if err != nil {
		w.editStatus(ctx, job, msgGenericError)
		return
	}

	switch ChooseStrategy(info.Size(), w.opts.Policy) {
	case DirectSend:
		w.deliverDirect(ctx, job, videoPath, captionText)
	case AnimatedFallback:
		w.deliverAnimated(ctx, job, videoPath, captionText)
	case HostedLink:
		w.deliverHosted(ctx, job, videoPath, captionText)
	case RejectTooLarge:
		w.editStatus(ctx, job, msgTooLarge)
	}
}

// download runs the fetch with exponential backoff on throttling errors.
// Only throttling earns a retry; any other failure is final for this job.
func (w *Worker) download(ctx context.Context, url string) (*fetch.Result, error) {
	var lastErr error
	for attempt := 0; attempt < w.opts.MaxAttempts; attempt++ {
		result, err := w.fetcher.Fetch(ctx, url)
		if err == nil {
			return result, nil
		}
		if err == fetch.ErrNoVideo {
			return nil, err
		}
		lastErr = err
		if fetch.IsRetryable(err) && attempt < w.opts.MaxAttempts-1 {
			wait := w.opts.BackoffBase * time.Duration(pow3(attempt))
			w.log.Warn("worker", "rate limited, backing off", map[string]interface{}{
				"url":     url,
				"attempt": attempt + 1,
				"wait":    wait.String(),
			})
			w.sleep(wait)
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// buildCaption prefers the generated summary, falls back to the raw post
// description, and normalizes hashtags either way. Caption failures never
// fail the job.
func (w *Worker) buildCaption(ctx context.Context, job *entity.Job, videoPath, description string) string {
	text := description
	if w.captioner != nil {
		w.editStatus(ctx, job, msgSummarizing)
		summary, err := w.captioner.Summary(ctx, videoPath, description)
		if err != nil {
			w.log.Warn("worker", "caption generation failed", map[string]interface{}{"error": err.Error()})
		} else if summary != "" {
			text = summary
		}
	}
	if text == "" {
		return ""
	}
	return caption.NormalizeHashtags(text)
}

func (w *Worker) deliverDirect(ctx context.Context, job *entity.Job, videoPath, captionText string) {
	w.editStatus(ctx, job, msgSending)

	var width, height int
	if w.converter != nil {
		var err error
		width, height, err = w.converter.Dimensions(ctx, videoPath)
		if err != nil {
			w.log.Warn("worker", "dimension probe failed", map[string]interface{}{"error": err.Error()})
			width, height = 0, 0
		}
	}

	if err := w.messenger.SendVideo(ctx, job.ChatId, videoPath, captionText, width, height); err != nil {
		w.log.Error("worker", "send video failed", map[string]interface{}{
			"chat_id": job.ChatId,
			"error":   err.Error(),
		})
		w.editStatus(ctx, job, msgGenericError)
		return
	}

	w.charge(ctx, job)
	w.editStatus(ctx, job, msgSent)
}

func (w *Worker) deliverAnimated(ctx context.Context, job *entity.Job, videoPath, captionText string) {
	w.editStatus(ctx, job, msgConverting)

	if w.converter == nil {
		w.editStatus(ctx, job, msgConversionFailed)
		return
	}
	gifPath, err := w.converter.ToAnimation(ctx, videoPath)
	if err != nil {
		w.log.Warn("worker", "animation conversion failed", map[string]interface{}{"error": err.Error()})
		w.editStatus(ctx, job, msgConversionFailed)
		return
	}
	defer removeWithParent(gifPath)

	info, err := os.Stat(gifPath)
	if err != nil || info.Size() > w.opts.Policy.SmallLimit {
		w.editStatus(ctx, job, msgConversionFailed)
		return
	}

	gifCaption := captionText
	if gifCaption != "" {
		gifCaption += "\n\n"
	}
	gifCaption += "Vídeo original: " + job.SourceURL
	gifCaption = truncateCaption(gifCaption, w.opts.MaxCaptionLength)

	if err := w.messenger.SendAnimation(ctx, job.ChatId, gifPath, gifCaption); err != nil {
		w.log.Error("worker", "send animation failed", map[string]interface{}{
			"chat_id": job.ChatId,
			"error":   err.Error(),
		})
		w.editStatus(ctx, job, msgGenericError)
		return
	}

	w.charge(ctx, job)
	w.editStatus(ctx, job, msgSentAsGif)
}

func (w *Worker) deliverHosted(ctx context.Context, job *entity.Job, videoPath, captionText string) {
	if w.publisher == nil {
		w.deliverAnimated(ctx, job, videoPath, captionText)
		return
	}

	fileId, err := w.publisher.Publish(videoPath)
	if err != nil {
		w.log.Error("worker", "hosting publish failed", map[string]interface{}{"error": err.Error()})
		w.editStatus(ctx, job, msgGenericError)
		return
	}

	text := captionText
	if text != "" {
		text += "\n\n"
	}
	text += w.publisher.URL(fileId)
	if err := w.messenger.SendText(ctx, job.ChatId, text); err != nil {
		w.log.Error("worker", "send link failed", map[string]interface{}{
			"chat_id": job.ChatId,
			"error":   err.Error(),
		})
		w.editStatus(ctx, job, msgGenericError)
		return
	}

	w.charge(ctx, job)
	w.editStatus(ctx, job, msgLinkReady)
}

// charge settles a successful delivery: one post off the balance, one tick
// on the daily counter. Failures are logged, not surfaced to the requester;
// the video already went out.
func (w *Worker) charge(ctx context.Context, job *entity.Job) {
	if _, err := w.ledger.DeductBalance(ctx, job.RequesterId); err != nil {
		w.log.Error("worker", "deduct balance failed", map[string]interface{}{
			"requester_id": job.RequesterId,
			"error":        err.Error(),
		})
	}
	w.limiter.Increment(ctx, job.ChatId)
}

func (w *Worker) editStatus(ctx context.Context, job *entity.Job, text string) {
	if err := w.messenger.EditStatus(ctx, job.ChatId, job.StatusMessageRef, text); err != nil {
		w.log.Warn("worker", "status edit failed", map[string]interface{}{
			"chat_id": job.ChatId,
			"error":   err.Error(),
		})
	}
}

// truncateCaption cuts the text down to at most max bytes, backing up to a
// rune boundary so a multibyte character is never split.
func truncateCaption(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func pow3(n int) int64 {
	result := int64(1)
	for i := 0; i < n; i++ {
		result *= 3
	}
	return result
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// removeWithParent deletes the file and, when that leaves the parent
// directory empty, the directory too. Each download lives in its own temp
// directory, so this is the full cleanup.
func removeWithParent(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
	parent := filepath.Dir(path)
	if entries, err := os.ReadDir(parent); err == nil && len(entries) == 0 {
		_ = os.Remove(parent)
	}
}
