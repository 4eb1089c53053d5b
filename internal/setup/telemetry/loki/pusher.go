package loki

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/kcdcommunity/kcdbot/internal/setup/config"
)

// ErrUnexpectedStatusCode is returned when Loki responds with an unexpected status code.
var ErrUnexpectedStatusCode = errors.New("unexpected status code from Loki")

// Pusher batches log entries and ships them to Loki.
// Entries are grouped into one stream per level, labeled with the configured labels.
type Pusher struct {
	config  config.Loki
	client  *http.Client
	pushURL string
	entries chan logEntry
	quit    chan struct{}
	done    sync.WaitGroup
	cancel  context.CancelFunc
}

// NewPusher creates a Loki pusher and starts its background loop.
func NewPusher(ctx context.Context, cfg config.Loki) *Pusher {
	ctx, cancel := context.WithCancel(ctx)

	p := &Pusher{
		config:  cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		pushURL: cfg.URL + "/loki/api/v1/push",
		entries: make(chan logEntry, max(cfg.BatchMaxSize, 1)*2),
		quit:    make(chan struct{}),
		cancel:  cancel,
	}

	p.done.Add(1)
	go p.run(ctx)

	return p
}

// AddEntry queues an entry without blocking. Entries are dropped while the queue is full.
func (p *Pusher) AddEntry(entry logEntry) {
	select {
	case p.entries <- entry:
	default:
		slog.Warn("Loki entry queue full, dropping log entry")
	}
}

// Stop flushes pending entries and stops the background loop.
func (p *Pusher) Stop() {
	close(p.quit)
	p.done.Wait()
	p.cancel()
}

func (p *Pusher) run(ctx context.Context) {
	defer p.done.Done()

	batchMaxSize := max(p.config.BatchMaxSize, 1)
	ticker := time.NewTicker(time.Duration(max(p.config.BatchMaxWaitMS, 1)) * time.Millisecond)
	defer ticker.Stop()

	batch := make([]logEntry, 0, batchMaxSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := p.send(ctx, batch); err != nil {
			slog.Error("Failed to send Loki batch", slog.Any("error", err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.quit:
			// Drain whatever is still queued
			for {
				select {
				case entry := <-p.entries:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		case entry := <-p.entries:
			batch = append(batch, entry)
			if len(batch) >= batchMaxSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// buildRequest groups a batch into per-level streams.
func (p *Pusher) buildRequest(batch []logEntry) pushRequest {
	byLevel := make(map[string]*stream)
	levels := make([]string, 0, 4)

	for _, entry := range batch {
		s, ok := byLevel[entry.level]
		if !ok {
			labels := make(map[string]string, len(p.config.Labels)+1)
			maps.Copy(labels, p.config.Labels)
			labels["level"] = entry.level

			s = &stream{Stream: labels}
			byLevel[entry.level] = s
			levels = append(levels, entry.level)
		}
		s.Values = append(s.Values, [2]string{strconv.FormatInt(entry.timestamp, 10), entry.line})
	}

	sort.Strings(levels)

	req := pushRequest{Streams: make([]stream, 0, len(levels))}
	for _, level := range levels {
		req.Streams = append(req.Streams, *byLevel[level])
	}

	return req
}

// send pushes one batch as a gzip-compressed JSON request.
func (p *Pusher) send(ctx context.Context, batch []logEntry) error {
	payload, err := sonic.Marshal(p.buildRequest(batch))
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(payload); err != nil {
		return fmt.Errorf("failed to compress: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to compress: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.pushURL, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")

	// Add basic auth if configured
	if p.config.Username != "" && p.config.Password != "" {
		req.SetBasicAuth(p.config.Username, p.config.Password)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	return nil
}
