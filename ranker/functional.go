package ranker

import (
	"context"

	"github.com/rushteam/innermatch/core"
)

// 函数式 API：每次调用构造一个一次性 Ranker，适合无状态调用场景。
// 长期复用同一 (owner, session) 时建议直接持有 *Ranker。

// Rank 对候选排序并返回下标排列（最匹配的在前）。
func Rank(ctx context.Context, owner, credential, session string, store core.ModelStore,
	candidates []core.Vector, query core.Vector) ([]int, error) {
	r := New(owner, credential, session, store)
	return r.Rank(ctx, candidates, query)
}

// Feedback 根据观测批量更新 (owner, session) 对应的权重矩阵。
func Feedback(ctx context.Context, owner, credential, session string, store core.ModelStore,
	candidates, queries []core.Vector, labels []int) error {
	r := New(owner, credential, session, store)
	return r.Feedback(ctx, candidates, queries, labels)
}
