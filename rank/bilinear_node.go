package rank

import (
	"context"
	"sort"

	"github.com/rushteam/innermatch/core"
	"github.com/rushteam/innermatch/pipeline"
	"github.com/rushteam/innermatch/pkg/utils"
	"github.com/rushteam/innermatch/ranker"
)

// BilinearNode 是使用学习到的双线性模型打分的排序 Node。
// - 写入 labels：rank_model
// - 更新 candidate.Score（取负能量，分数越高越匹配）并按分数降序排序
//
// 鉴权与模型加载由内部的 Ranker 完成；qctx 的 query 向量作为打分基准。
type BilinearNode struct {
	Ranker *ranker.Ranker
}

func (n *BilinearNode) Name() string        { return "rank.bilinear" }
func (n *BilinearNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *BilinearNode) Process(
	ctx context.Context,
	qctx *core.QueryContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.Ranker == nil || len(candidates) == 0 {
		return candidates, nil
	}

	vectors := make([]core.Vector, len(candidates))
	for i, c := range candidates {
		vectors[i] = c.Vector
	}

	energies, err := n.Ranker.Energies(ctx, vectors, qctx.Query)
	if err != nil {
		return nil, err
	}

	for i, c := range candidates {
		c.Score = -energies[i]
		c.PutLabel("rank_model", utils.Label{Value: "bilinear", Source: "rank"})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}
