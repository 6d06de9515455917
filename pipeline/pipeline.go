package pipeline

import (
	"context"

	"github.com/rushteam/innermatch/core"
)

// Pipeline 是 innermatch 的编排抽象：把排序逻辑拆成可组合的 Node 链。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	qctx *core.QueryContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := candidates
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, qctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
