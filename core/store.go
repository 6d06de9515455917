package core

import "context"

// ModelStore 是模型持久化的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 避免循环依赖：领域层不依赖基础设施层
//
// 语义约束：
//   - Set 对调用方而言是原子替换：读者不会观察到写了一半的 blob
//   - 重试策略属于具体实现，核心逻辑不做静默重试
//
// 实现：
//   - store.MemoryStore（测试/开发/原型）
//   - store.FileStore（每个 key 一个文件，对应原始的模型目录布局）
//   - store.RedisStore（生产常用）
type ModelStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Exists 判断 key 是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// Get 读取 key 对应的模型 blob；不存在时返回 ErrStoreNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 原子地写入/替换 key 对应的模型 blob
	Set(ctx context.Context, key string, value []byte) error

	// Delete 删除 key
	Delete(ctx context.Context, key string) error

	// Close 关闭连接/释放资源
	Close() error
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")
)

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
