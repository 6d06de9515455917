package ranker

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rushteam/innermatch/core"
)

// ModelManager 负责权重矩阵的生命周期：按 ModelKey 解析、懒初始化、持久化。
//
// 并发约束：
//   - Feedback 的 load-modify-persist 序列必须在 LockKey 的互斥区内执行，
//     否则并发写者会互相覆盖（last-writer-wins）
//   - 冷加载使用 singleflight 合并同 key 的并发读
type ModelManager struct {
	store core.ModelStore
	group singleflight.Group

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewModelManager(store core.ModelStore) *ModelManager {
	return &ModelManager{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// Store 返回底层存储（用于日志/监控）。
func (m *ModelManager) Store() core.ModelStore { return m.store }

// Resolve 解析 key 对应的权重矩阵。
// 无持久化记录时返回 dim×dim 的单位矩阵（不落盘，首次 Persist 才写入）；
// 有记录时加载并校验存储维度与 dim 一致。
// 返回的矩阵归调用方所有，可安全修改。
func (m *ModelManager) Resolve(ctx context.Context, key core.ModelKey, dim int) (*core.WeightMatrix, error) {
	if dim <= 0 {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("model: dimension must be positive, got %d", dim))
	}

	skey := key.StorageKey()
	exists, err := m.store.Exists(ctx, skey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return core.NewIdentityMatrix(dim), nil
	}

	// 合并同 key 的并发加载；blob 只读共享，解码出的矩阵每个调用方独占
	v, err, _ := m.group.Do(skey, func() (interface{}, error) {
		return m.store.Get(ctx, skey)
	})
	if err != nil {
		if core.IsStoreNotFound(err) {
			// Exists 与 Get 之间被删除，等价于从未初始化
			return core.NewIdentityMatrix(dim), nil
		}
		return nil, err
	}

	w, err := core.UnmarshalWeightMatrix(v.([]byte))
	if err != nil {
		return nil, err
	}
	if w.Dim != dim {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeDimensionMismatch,
			fmt.Sprintf("model: persisted dimension %d does not match requested %d", w.Dim, dim))
	}
	return w, nil
}

// Persist 将矩阵持久化到 key 下，整体替换旧值。
func (m *ModelManager) Persist(ctx context.Context, key core.ModelKey, w *core.WeightMatrix) error {
	if w == nil {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeNotInitialized,
			"model: no weight matrix to persist, run Rank or Feedback first")
	}
	data, err := w.Marshal()
	if err != nil {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeStorageFailure,
			"model: encode weight matrix: "+err.Error())
	}
	return m.store.Set(ctx, key.StorageKey(), data)
}

// LockKey 获取 key 级互斥锁，返回解锁函数。
// Feedback 的 resolve → 更新 → persist 必须整体持锁执行。
func (m *ModelManager) LockKey(key core.ModelKey) func() {
	skey := key.StorageKey()

	m.mu.Lock()
	l, ok := m.locks[skey]
	if !ok {
		l = &sync.Mutex{}
		m.locks[skey] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
