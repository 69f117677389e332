// file: internals/features/procurement/notifications/service/notifier.go
package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

/* =========================================================
   EVENT
========================================================= */

type EventType string

const (
	EventEvaluatorAssigned   EventType = "evaluator_assigned"
	EventEvaluationStarted   EventType = "evaluation_started"
	EventEvaluationCancelled EventType = "evaluation_cancelled"
	EventEvaluatorCompleted  EventType = "evaluator_completed"
	EventReadyForConsensus   EventType = "ready_for_consensus"
	EventConsensusReached    EventType = "consensus_reached"
	EventEvaluationFinalized EventType = "evaluation_finalized"
	EventEvaluationDisputed  EventType = "evaluation_disputed"
)

type Event struct {
	Type         EventType      `json:"type"`
	EvaluationID uuid.UUID      `json:"evaluation_id"`
	RFQID        uuid.UUID      `json:"rfq_id,omitempty"`
	ActorID      uuid.UUID      `json:"actor_id,omitempty"`
	Payload      map[string]any `json:"payload,omitempty"`
	OccurredAt   time.Time      `json:"occurred_at"`
}

/* =========================================================
   NOTIFIER
========================================================= */

// Notifier mengirim event ke notification service. Best-effort:
// kegagalan dicatat di log, tidak pernah menggagalkan operasi utama.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Dispatch: fire-and-forget. Dipanggil di akhir operasi, setelah state
// utama tersimpan. Tidak pernah memblokir caller.
func Dispatch(n Notifier, ev Event) {
	if n == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := n.Notify(ctx, ev); err != nil {
			log.Printf("[Notifier] WARNING gagal kirim event %s eval=%s: %v", ev.Type, ev.EvaluationID, err)
		}
	}()
}

/* =========================================================
   IMPLEMENTATIONS
========================================================= */

// LogNotifier: default kalau webhook belum dikonfigurasi.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, ev Event) error {
	log.Printf("[Notifier] event=%s eval=%s rfq=%s actor=%s", ev.Type, ev.EvaluationID, ev.RFQID, ev.ActorID)
	return nil
}

// WebhookNotifier: POST event JSON ke notification service.
type WebhookNotifier struct {
	URL    string
	Client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (w *WebhookNotifier) Notify(ctx context.Context, ev Event) error {
	body, err := sonic.Marshal(ev)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification webhook status %d", resp.StatusCode)
	}
	return nil
}

// ResolveNotifier: webhook kalau URL diset, selain itu log-only.
func ResolveNotifier(webhookURL string) Notifier {
	if webhookURL != "" {
		return NewWebhookNotifier(webhookURL)
	}
	return LogNotifier{}
}
