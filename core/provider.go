package core

import "context"

// EmbeddingProvider 是向量来源的领域接口。
//
// 使用场景：
//   - 调用方只持有实体 ID（物品 ID、文档 ID 等），向量存放在外部特征平台
//   - Ranker.RankIDs 通过此接口把 ID 解析为向量后再排序
//
// 实现：
//   - feast.Provider 基于官方 Feast Go SDK 从在线特征库获取 embedding
//   - 测试中可用内存 map 实现
type EmbeddingProvider interface {
	// Name 返回提供方名称（用于日志/监控）
	Name() string

	// GetEmbeddings 批量获取实体的 embedding 向量；
	// 未找到的 ID 不出现在返回 map 中，由调用方决定如何处理缺失。
	GetEmbeddings(ctx context.Context, ids []string) (map[string]Vector, error)

	// Close 关闭连接
	Close() error
}
