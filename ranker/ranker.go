// Package ranker 实现基于用户反馈学习的双线性排序算法。
//
// 核心思路：
//   - 打分：能量 e = -0.5 * qᵀ·W·c，能量越低候选越匹配
//   - 学习：W += learning_rate * label * outer(c, q)（Hebbian 式关联强化）
//   - W 按 (owner, session) 隔离，懒初始化为单位矩阵并持久化
package ranker

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/innermatch/auth"
	"github.com/rushteam/innermatch/core"
)

// Ranker 把打分（Rank）与反馈学习（Feedback）绑定到一个 ModelKey 上。
// 两个操作在任何存储 I/O 之前都会先过鉴权门禁。
type Ranker struct {
	Owner      string
	Credential string
	Session    string

	// LearningRate 反馈更新的学习率，默认 1.0
	LearningRate float64

	// MaxConcurrent 打分阶段的最大并发数（<=1 表示串行）
	MaxConcurrent int

	authorizer core.Authorizer
	manager    *ModelManager
}

// Option 用于定制 Ranker。
type Option func(*Ranker)

// WithAuthorizer 替换默认的占位鉴权器。
func WithAuthorizer(a core.Authorizer) Option {
	return func(r *Ranker) { r.authorizer = a }
}

// WithLearningRate 设置反馈更新的学习率。
func WithLearningRate(lr float64) Option {
	return func(r *Ranker) { r.LearningRate = lr }
}

// WithMaxConcurrent 设置打分阶段的最大并发数。
func WithMaxConcurrent(n int) Option {
	return func(r *Ranker) { r.MaxConcurrent = n }
}

// New 创建一个绑定 (owner, session) 的 Ranker。
// 默认使用占位鉴权器（无条件放行）与学习率 1.0。
func New(owner, credential, session string, store core.ModelStore, opts ...Option) *Ranker {
	r := &Ranker{
		Owner:        owner,
		Credential:   credential,
		Session:      session,
		LearningRate: 1.0,
		authorizer:   auth.NewAllowAll(),
		manager:      NewModelManager(store),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key 返回本 Ranker 对应的 ModelKey。
func (r *Ranker) Key() core.ModelKey {
	return core.ModelKey{Owner: r.Owner, Session: r.Session}
}

// Manager 返回权重矩阵生命周期管理器。
func (r *Ranker) Manager() *ModelManager { return r.manager }

// gate 执行访问门禁。必须在任何 load/persist 之前调用。
func (r *Ranker) gate(ctx context.Context) error {
	ok, err := r.authorizer.Authorize(ctx, r.Owner, r.Credential, r.Session)
	if err != nil {
		return core.NewDomainError(core.ModuleAuth, core.ErrorCodeUnauthorized,
			"auth: authorize failed: "+err.Error())
	}
	if !ok {
		return core.ErrUnauthorized
	}
	return nil
}

// Energies 计算 query 对每个候选的双线性能量（不排序、不修改 W）。
func (r *Ranker) Energies(ctx context.Context, candidates []core.Vector, query core.Vector) ([]float64, error) {
	if len(candidates) == 0 {
		return nil, core.NewDomainError(core.ModuleRanker, core.ErrorCodeInvalidInput,
			"ranker: empty candidate set")
	}
	dim := query.Dim()
	if dim == 0 {
		return nil, core.NewDomainError(core.ModuleRanker, core.ErrorCodeInvalidInput,
			"ranker: empty query vector")
	}
	for i, c := range candidates {
		if c.Dim() != dim {
			return nil, core.NewDomainError(core.ModuleRanker, core.ErrorCodeDimensionMismatch,
				fmt.Sprintf("ranker: candidate %d has dimension %d, query has %d", i, c.Dim(), dim))
		}
	}

	if err := r.gate(ctx); err != nil {
		return nil, err
	}

	w, err := r.manager.Resolve(ctx, r.Key(), dim)
	if err != nil {
		return nil, err
	}

	energies := make([]float64, len(candidates))

	// 候选多且允许并发时按 fanout 方式分摊矩阵乘法
	if r.MaxConcurrent > 1 && len(candidates) > 1 {
		eg, _ := errgroup.WithContext(ctx)
		sem := make(chan struct{}, r.MaxConcurrent)
		for i := range candidates {
			i := i
			eg.Go(func() error {
				sem <- struct{}{}
				defer func() { <-sem }()
				energies[i] = w.Energy(query, candidates[i])
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		return energies, nil
	}

	for i := range candidates {
		energies[i] = w.Energy(query, candidates[i])
	}
	return energies, nil
}

// Rank 按学习到的双线性相似度对候选排序，返回下标排列（最匹配的在前）。
// 能量相同的候选保持输入顺序（稳定排序），相同输入必然得到相同输出。
// 不修改 W；首次调用的副作用仅限懒加载。
func (r *Ranker) Rank(ctx context.Context, candidates []core.Vector, query core.Vector) ([]int, error) {
	energies, err := r.Energies(ctx, candidates, query)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return energies[order[a]] < energies[order[b]]
	})
	return order, nil
}

// Feedback 根据 (候选, query, label) 观测批量更新权重矩阵并持久化。
//
// 更新规则：W += learning_rate * Σ labels[i] * outer(candidates[i], queries[i])。
// label=1 强化该候选/query 方向对的关联，label=0 不产生任何贡献。
// 没有衰减、正则化，也没有对 label=0 的负向修正，这是参考算法的既有性质；
// 持续的正反馈会使 W 无界增长，调用方如需归一化须自行处理（会改变排序行为）。
//
// 空批次直接返回，不触发鉴权与任何 load/persist；
// 非空批次即使更新为全零矩阵（labels 全 0）也会照常持久化一次。
func (r *Ranker) Feedback(ctx context.Context, candidates, queries []core.Vector, labels []int) error {
	if len(candidates) == 0 || len(queries) == 0 {
		return nil
	}
	if len(candidates) != len(queries) || len(candidates) != len(labels) {
		return core.NewDomainError(core.ModuleRanker, core.ErrorCodeInvalidInput,
			fmt.Sprintf("ranker: batch length mismatch: %d candidates, %d queries, %d labels",
				len(candidates), len(queries), len(labels)))
	}

	dim := queries[0].Dim()
	if dim == 0 {
		return core.NewDomainError(core.ModuleRanker, core.ErrorCodeInvalidInput,
			"ranker: empty query vector")
	}
	for i := range candidates {
		if candidates[i].Dim() != dim || queries[i].Dim() != dim {
			return core.NewDomainError(core.ModuleRanker, core.ErrorCodeDimensionMismatch,
				fmt.Sprintf("ranker: row %d has candidate dimension %d, query dimension %d, expected %d",
					i, candidates[i].Dim(), queries[i].Dim(), dim))
		}
	}
	for i, lbl := range labels {
		if lbl != 0 && lbl != 1 {
			return core.NewDomainError(core.ModuleRanker, core.ErrorCodeInvalidInput,
				fmt.Sprintf("ranker: label at row %d must be 0 or 1, got %d", i, lbl))
		}
	}

	if err := r.gate(ctx); err != nil {
		return err
	}

	// load-modify-persist 整体持 key 级锁，避免并发写者互相覆盖
	unlock := r.manager.LockKey(r.Key())
	defer unlock()

	w, err := r.manager.Resolve(ctx, r.Key(), dim)
	if err != nil {
		return err
	}

	lr := r.LearningRate
	if lr == 0 {
		lr = 1.0
	}
	for i, lbl := range labels {
		w.AddOuter(candidates[i], queries[i], lr*float64(lbl))
	}

	return r.manager.Persist(ctx, r.Key(), w)
}

// RankIDs 是基于 EmbeddingProvider 的便捷排序：
// 先把候选 ID 与 query ID 解析为向量，再走常规 Rank，返回按匹配度排序的 ID 列表。
func (r *Ranker) RankIDs(ctx context.Context, provider core.EmbeddingProvider, candidateIDs []string, queryID string) ([]string, error) {
	if len(candidateIDs) == 0 {
		return nil, core.NewDomainError(core.ModuleRanker, core.ErrorCodeInvalidInput,
			"ranker: empty candidate set")
	}

	ids := make([]string, 0, len(candidateIDs)+1)
	ids = append(ids, candidateIDs...)
	ids = append(ids, queryID)

	embeddings, err := provider.GetEmbeddings(ctx, ids)
	if err != nil {
		return nil, err
	}

	query, ok := embeddings[queryID]
	if !ok {
		return nil, core.NewDomainError(core.ModuleRanker, core.ErrorCodeNotFound,
			fmt.Sprintf("ranker: no embedding for query %q", queryID))
	}
	vectors := make([]core.Vector, len(candidateIDs))
	for i, id := range candidateIDs {
		vec, ok := embeddings[id]
		if !ok {
			return nil, core.NewDomainError(core.ModuleRanker, core.ErrorCodeNotFound,
				fmt.Sprintf("ranker: no embedding for candidate %q", id))
		}
		vectors[i] = vec
	}

	order, err := r.Rank(ctx, vectors, query)
	if err != nil {
		return nil, err
	}

	ranked := make([]string, len(order))
	for i, idx := range order {
		ranked[i] = candidateIDs[idx]
	}
	return ranked, nil
}
