// Package feast 提供基于官方 Feast Go SDK 的 EmbeddingProvider 实现。
//
// 使用场景：候选/query 的 embedding 托管在 Feast 在线特征库中，
// 调用方只持有实体 ID，通过此 Provider 解析为向量后再交给 Ranker。
package feast

import (
	"context"
	"fmt"
	"time"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/innermatch/core"
)

// Provider 实现 core.EmbeddingProvider，底层是官方 SDK 的 gRPC 客户端。
//
// 约定：
//   - EntityKey 是实体键名（如 "item_id"）
//   - Feature 是 embedding 特征的全名（如 "item_embeddings:vector"），
//     特征值须为 double/float 列表
type Provider struct {
	client *feastsdk.GrpcClient

	Project   string
	EntityKey string
	Feature   string

	// Timeout 单次特征请求的超时时间
	Timeout time.Duration
}

// NewProvider 创建 Feast Provider（insecure gRPC 连接，默认端口 6565）。
func NewProvider(host string, port int, project, entityKey, feature string) (*Provider, error) {
	if port == 0 {
		port = 6565
	}
	if entityKey == "" || feature == "" {
		return nil, core.NewDomainError(core.ModuleFeast, core.ErrorCodeInvalidInput,
			"feast: entity key and feature are required")
	}

	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast: create grpc client: %w", err)
	}

	return &Provider{
		client:    client,
		Project:   project,
		EntityKey: entityKey,
		Feature:   feature,
		Timeout:   30 * time.Second,
	}, nil
}

func (p *Provider) Name() string { return "feast" }

// GetEmbeddings 批量拉取实体的 embedding。
// Feast 中没有值的实体不出现在返回 map 中。
func (p *Provider) GetEmbeddings(ctx context.Context, ids []string) (map[string]core.Vector, error) {
	if len(ids) == 0 {
		return map[string]core.Vector{}, nil
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	entityRows := make([]feastsdk.Row, len(ids))
	for i, id := range ids {
		entityRows[i] = feastsdk.Row{p.EntityKey: feastsdk.StrVal(id)}
	}

	resp, err := p.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: []string{p.Feature},
		Entities: entityRows,
		Project:  p.Project,
	})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleFeast, core.ErrorCodeStorageFailure,
			"feast: get online features: "+err.Error())
	}

	rows := resp.Rows()
	if len(rows) != len(ids) {
		return nil, core.NewDomainError(core.ModuleFeast, core.ErrorCodeStorageFailure,
			fmt.Sprintf("feast: response row count mismatch: expected %d, got %d", len(ids), len(rows)))
	}

	out := make(map[string]core.Vector, len(ids))
	for i, row := range rows {
		val, ok := row[p.Feature]
		if !ok || val == nil {
			continue
		}
		vec := valueToVector(val)
		if vec != nil {
			out[ids[i]] = vec
		}
	}
	return out, nil
}

func (p *Provider) Close() error {
	// 官方 SDK 没有显式的 Close，连接由 gRPC 库管理
	p.client = nil
	return nil
}

// valueToVector 把 Feast 的 Value 转成 core.Vector。
// 支持 double/float 列表；标量 double/float 视为一维向量。
func valueToVector(val *feasttypes.Value) core.Vector {
	if l := val.GetDoubleListVal(); l != nil {
		vec := make(core.Vector, len(l.GetVal()))
		copy(vec, l.GetVal())
		return vec
	}
	if l := val.GetFloatListVal(); l != nil {
		vec := make(core.Vector, len(l.GetVal()))
		for i, f := range l.GetVal() {
			vec[i] = float64(f)
		}
		return vec
	}
	switch v := val.GetVal().(type) {
	case *feasttypes.Value_DoubleVal:
		return core.Vector{v.DoubleVal}
	case *feasttypes.Value_FloatVal:
		return core.Vector{float64(v.FloatVal)}
	default:
		return nil
	}
}

var _ core.EmbeddingProvider = (*Provider)(nil)
