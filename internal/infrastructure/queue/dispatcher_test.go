package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homecare/nursing-api/internal/core/domain"
)

type recordingAuditRepo struct {
	mu     sync.Mutex
	events []*domain.LifecycleEvent
}

func (r *recordingAuditRepo) InsertEvent(_ context.Context, e *domain.LifecycleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingAuditRepo) ListByServiceRequest(_ context.Context, id string) ([]*domain.LifecycleEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.LifecycleEvent
	for _, e := range r.events {
		if e.ServiceRequestID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(4, &recordingAuditRepo{}, zerolog.Nop())

	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("sr-%d", i)
		idx := d.shardIndex(id)
		assert.Equal(t, idx, d.shardIndex(id))
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 4)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingAuditRepo{}, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
}

func TestDispatcher_PreservesPerRequestOrderAndDrainsOnStop(t *testing.T) {
	repo := &recordingAuditRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())

	// publish before start so cancellation has to drain the buffer
	order := []domain.Transition{
		domain.TransitionCreate,
		domain.TransitionAccept,
		domain.TransitionCollectPayment,
		domain.TransitionComplete,
	}
	for _, tr := range order {
		d.Publish(domain.LifecycleEvent{ServiceRequestID: "sr-1", Transition: tr})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	events, err := repo.ListByServiceRequest(context.Background(), "sr-1")
	require.NoError(t, err)
	require.Len(t, events, len(order))
	for i, e := range events {
		assert.Equal(t, order[i], e.Transition)
	}
}

func TestDispatcher_PublishNeverBlocks(t *testing.T) {
	d := NewDispatcher(1, &recordingAuditRepo{}, zerolog.Nop())

	// workers not started: the single shard fills up and the rest drop
	for i := 0; i < channelBuffer+10; i++ {
		d.Publish(domain.LifecycleEvent{ServiceRequestID: "sr-1"})
	}
	assert.Len(t, d.workers[0], channelBuffer)
}
