package orchestrator

import (
	"errors"

	"github.com/google/uuid"
	"github.com/phambaophuc/vector-art/internal/models"
	"go.uber.org/zap"
)

// sessionReporter records callbacks on the session of one run and forwards them as events.
type sessionReporter struct {
	c *Controller
	r *run
}

func (c *Controller) reporter(r *run) Reporter {
	return &sessionReporter{c: c, r: r}
}

func (p *sessionReporter) OnStatus(text string) {
	p.record(models.EventStatus, text, func(s *models.Session) { s.StatusText = text })
}

func (p *sessionReporter) OnError(message string) {
	p.record(models.EventError, message, func(s *models.Session) { s.Error = message })
}

func (p *sessionReporter) OnResultReady(address string) {
	p.record(models.EventResultReady, address, func(s *models.Session) { s.DisplayAddress = address })
}

func (p *sessionReporter) OnDownloadReady(address string) {
	p.record(models.EventDownloadReady, address, func(s *models.Session) { s.ResultAddress = address })
}

func (p *sessionReporter) record(typ models.EventType, payload string, fn func(s *models.Session)) {
	_, err := p.c.apply(p.r, func(s *models.Session) error {
		fn(s)
		return nil
	})
	if err != nil {
		if !errors.Is(err, errSuperseded) {
			p.c.logger.Error("Failed to record session event",
				zap.String("session_id", p.r.sessionID),
				zap.String("type", string(typ)),
				zap.Error(err))
		}
		return
	}

	if p.c.events == nil {
		return
	}

	event := models.SessionEvent{
		ID:        uuid.NewString(),
		SessionID: p.r.sessionID,
		Type:      typ,
		Payload:   payload,
		Timestamp: p.c.now(),
	}
	if err := p.c.events.Publish(p.r.storeCtx(), event); err != nil {
		p.c.logger.Warn("Failed to publish session event",
			zap.String("session_id", p.r.sessionID),
			zap.String("type", string(typ)),
			zap.Error(err))
	}
}
