package monitor

import (
	"context"
	"log"
	"time"

	"quanturnic/internal/events"
)

// Monitor watches balance events and emits alerts.
type Monitor struct {
	Bus  *events.Bus
	Sink AlertSink
	Rule *BalanceFloor
}

// Start subscribes before returning, so every balance change published
// afterwards is evaluated. The watcher stops with ctx.
func (m *Monitor) Start(ctx context.Context) {
	if m.Bus == nil || m.Sink == nil || m.Rule == nil {
		log.Println("monitor not fully configured; skipping")
		return
	}
	stream, unsub := m.Bus.Subscribe(50, events.EventBalanceChanged)
	go func() {
		defer unsub()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-stream:
				if !ok {
					return
				}
				change, ok := msg.Payload.(events.BalanceChange)
				if !ok {
					continue
				}
				if fire, reason := m.Rule.Check(change); fire {
					if err := m.Sink.Send(formatAlert(reason)); err != nil {
						log.Printf("alert delivery failed: %v", err)
					}
				}
			}
		}
	}()
}

func formatAlert(reason string) string {
	return "[" + time.Now().UTC().Format(time.RFC3339) + "] " + reason
}
