package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/core/ports"
)

type recordingAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	block   chan struct{}
}

func (r *recordingAudit) Record(_ context.Context, e domain.AuditEntry) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *recordingAudit) List(context.Context, ports.AuditFilter) (*domain.Page[domain.AuditEntry], error) {
	return nil, nil
}

func (r *recordingAudit) snapshot() []domain.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEntry(nil), r.entries...)
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	svc := &recordingAudit{}
	d := NewDispatcher(3, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	actions := []domain.AuditAction{domain.AuditLogin, domain.AuditRefresh, domain.AuditRefresh, domain.AuditLogout}
	for _, a := range actions {
		d.Enqueue(domain.AuditEntry{Action: a, UserID: "u-1"})
	}

	cancel()
	d.Wait()

	got := svc.snapshot()
	if len(got) != len(actions) {
		t.Fatalf("expected %d entries, got %d", len(actions), len(got))
	}
	for i, e := range got {
		if e.Action != actions[i] {
			t.Fatalf("entry %d: expected %s, got %s", i, actions[i], e.Action)
		}
		if e.CreatedAt.IsZero() {
			t.Fatalf("entry %d: missing timestamp", i)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingAudit{}, zerolog.Nop())
	first := d.shardIndex("alice@example.org")
	for i := 0; i < 10; i++ {
		if d.shardIndex("alice@example.org") != first {
			t.Fatalf("shard index changed between calls")
		}
	}
	if shardKey(domain.AuditEntry{Email: "e"}) != "e" || shardKey(domain.AuditEntry{UserID: "u", Email: "e"}) != "u" {
		t.Fatalf("unexpected shard key selection")
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	svc := &recordingAudit{block: make(chan struct{})}
	d := NewDispatcher(1, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Enqueue(domain.AuditEntry{Action: domain.AuditLogin, UserID: "u"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Enqueue blocked on a full queue")
	}

	close(svc.block)
	cancel()
	d.Wait()

	if n := len(svc.snapshot()); n > channelBuffer+1 {
		t.Fatalf("expected overflow to be dropped, recorded %d", n)
	}
}
