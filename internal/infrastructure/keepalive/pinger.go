package keepalive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Pinger периодически запрашивает URL сервиса, чтобы хостинг не усыплял инстанс.
type Pinger struct {
	URL      string
	Interval time.Duration
	Client   *http.Client
	Logger   *log.Logger
}

// NewPinger создаёт пингер с таймаутом запроса 10 секунд
func NewPinger(url string, interval time.Duration, logger *log.Logger) *Pinger {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pinger{
		URL:      url,
		Interval: interval,
		Client:   &http.Client{Timeout: 10 * time.Second},
		Logger:   logger,
	}
}

// Run пингует сразу и затем раз в Interval, пока не отменён контекст.
// Ошибки пинга только логируются.
func (p *Pinger) Run(ctx context.Context) error {
	if p.Interval <= 0 {
		return fmt.Errorf("keepalive interval must be positive")
	}

	p.Logger.Info("keep-alive started", "url", p.URL, "interval", p.Interval)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		status, err := p.Ping(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.Logger.Warn("ping failed", "url", p.URL, "err", err)
		} else {
			p.Logger.Info("ping successful", "status", status)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Ping выполняет один запрос и возвращает HTTP-статус
func (p *Pinger) Ping(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
