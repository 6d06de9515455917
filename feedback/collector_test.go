package feedback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rushteam/innermatch/core"
)

// recordingLearner 记录每次回灌的批次。
type recordingLearner struct {
	mu      sync.Mutex
	batches [][]int
	rows    int
}

func (l *recordingLearner) Feedback(ctx context.Context, candidates, queries []core.Vector, labels []int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := make([]int, len(labels))
	copy(batch, labels)
	l.batches = append(l.batches, batch)
	l.rows += len(labels)
	return nil
}

func (l *recordingLearner) snapshot() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.batches), l.rows
}

func TestBufferedCollector_FlushOnClose(t *testing.T) {
	learner := &recordingLearner{}
	c := NewBufferedCollector(learner,
		WithFlushSize(100),
		WithFlushInterval(time.Hour), // 只靠 Close 触发
	)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		ev := Event{
			Candidate: core.Vector{1, 0},
			Query:     core.Vector{0, 1},
			Label:     i % 2,
		}
		if err := c.Record(ctx, ev); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	batches, rows := learner.snapshot()
	if rows != 5 {
		t.Errorf("rows = %d, want 5", rows)
	}
	if batches != 1 {
		t.Errorf("batches = %d, want 1", batches)
	}
}

func TestBufferedCollector_FlushOnSize(t *testing.T) {
	learner := &recordingLearner{}
	c := NewBufferedCollector(learner,
		WithFlushSize(2),
		WithFlushInterval(time.Hour),
	)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := c.Record(ctx, Event{Candidate: core.Vector{1}, Query: core.Vector{1}, Label: 1}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	batches, rows := learner.snapshot()
	if rows != 5 {
		t.Errorf("rows = %d, want 5", rows)
	}
	// 2 + 2 + 1
	if batches != 3 {
		t.Errorf("batches = %d, want 3", batches)
	}
}

func TestBufferedCollector_RejectsBadLabel(t *testing.T) {
	c := NewBufferedCollector(&recordingLearner{})
	defer c.Close()

	err := c.Record(context.Background(), Event{Candidate: core.Vector{1}, Query: core.Vector{1}, Label: 7})
	if !core.IsInvalidInput(err) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestBufferedCollector_FillsTimestamp(t *testing.T) {
	learner := &recordingLearner{}
	c := NewBufferedCollector(learner)

	ev := Event{Candidate: core.Vector{1}, Query: core.Vector{1}, Label: 1}
	if err := c.Record(context.Background(), ev); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	_, rows := learner.snapshot()
	if rows != 1 {
		t.Errorf("rows = %d, want 1", rows)
	}
}
