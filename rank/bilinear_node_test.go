package rank

import (
	"context"
	"testing"

	"github.com/rushteam/innermatch/core"
	"github.com/rushteam/innermatch/ranker"
	"github.com/rushteam/innermatch/store"
)

func TestBilinearNode_Process(t *testing.T) {
	r := ranker.New("u", "pw", "s", store.NewMemoryStore())
	node := &BilinearNode{Ranker: r}

	qctx := &core.QueryContext{
		Owner:   "u",
		Session: "s",
		Query:   core.Vector{1, 0},
	}
	candidates := []*core.Candidate{
		core.NewCandidate("orthogonal", core.Vector{0, 1}),
		core.NewCandidate("aligned", core.Vector{1, 0}),
	}

	out, err := node.Process(context.Background(), qctx, candidates)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].ID != "aligned" {
		t.Errorf("best candidate = %s, want aligned", out[0].ID)
	}
	if out[0].Score <= out[1].Score {
		t.Errorf("scores not descending: %v, %v", out[0].Score, out[1].Score)
	}
	for _, c := range out {
		lbl, ok := c.Labels["rank_model"]
		if !ok || lbl.Value != "bilinear" {
			t.Errorf("candidate %s missing rank_model label", c.ID)
		}
	}
}

func TestBilinearNode_EmptyInput(t *testing.T) {
	r := ranker.New("u", "pw", "s", store.NewMemoryStore())
	node := &BilinearNode{Ranker: r}

	out, err := node.Process(context.Background(), &core.QueryContext{Query: core.Vector{1}}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected passthrough of empty input, got %d", len(out))
	}
}
