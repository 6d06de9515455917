package config

import (
	"fmt"

	"github.com/rushteam/innermatch/auth"
	"github.com/rushteam/innermatch/core"
	"github.com/rushteam/innermatch/pipeline"
	"github.com/rushteam/innermatch/pkg/conv"
	"github.com/rushteam/innermatch/rank"
	"github.com/rushteam/innermatch/ranker"
	"github.com/rushteam/innermatch/rerank"
	"github.com/rushteam/innermatch/store"
)

func init() {
	Register("rank.bilinear", buildBilinearNode)
	Register("rerank.topn", buildTopNNode)
}

// BuildStore 根据配置构建 ModelStore。
//
// 配置示例：
//
//	store:
//	  type: file        # memory / file / redis
//	  dir: models/      # file 专用
//	  addr: 127.0.0.1:6379
//	  db: 0
//	  prefix: "innermatch:model:"
func BuildStore(cfg map[string]interface{}) (core.ModelStore, error) {
	switch typ := conv.ConfigGet[string](cfg, "type", "memory"); typ {
	case "memory":
		return store.NewMemoryStore(), nil
	case "file":
		return store.NewFileStore(conv.ConfigGet[string](cfg, "dir", "models"))
	case "redis":
		addr := conv.ConfigGet[string](cfg, "addr", "")
		if addr == "" {
			return nil, fmt.Errorf("redis store requires addr")
		}
		db := int(conv.ConfigGetInt64(cfg, "db", 0))
		prefix := conv.ConfigGet[string](cfg, "prefix", "")
		return store.NewRedisStore(addr, db, prefix)
	default:
		return nil, fmt.Errorf("unknown store type: %s", typ)
	}
}

// BuildAuthorizer 根据配置构建 Authorizer。
//
// 配置示例：
//
//	auth:
//	  type: cel                 # allow_all / cel
//	  policy: 'credential != ""'
func BuildAuthorizer(cfg map[string]interface{}) (core.Authorizer, error) {
	switch typ := conv.ConfigGet[string](cfg, "type", "allow_all"); typ {
	case "allow_all":
		return auth.NewAllowAll(), nil
	case "cel":
		policy := conv.ConfigGet[string](cfg, "policy", "")
		if policy == "" {
			return nil, fmt.Errorf("cel authorizer requires policy")
		}
		return auth.NewCELAuthorizer(policy)
	default:
		return nil, fmt.Errorf("unknown authorizer type: %s", typ)
	}
}

func buildBilinearNode(cfg map[string]interface{}) (pipeline.Node, error) {
	owner := conv.ConfigGet[string](cfg, "owner", "")
	session := conv.ConfigGet[string](cfg, "session", "")
	if owner == "" || session == "" {
		return nil, fmt.Errorf("rank.bilinear requires owner and session")
	}
	credential := conv.ConfigGet[string](cfg, "credential", "")

	storeCfg, _ := cfg["store"].(map[string]interface{})
	st, err := BuildStore(storeCfg)
	if err != nil {
		return nil, fmt.Errorf("build store: %w", err)
	}

	opts := []ranker.Option{
		ranker.WithLearningRate(conv.ConfigGetFloat64(cfg, "learning_rate", 1.0)),
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		opts = append(opts, ranker.WithMaxConcurrent(int(n)))
	}
	if authCfg, ok := cfg["auth"].(map[string]interface{}); ok {
		authorizer, err := BuildAuthorizer(authCfg)
		if err != nil {
			return nil, fmt.Errorf("build authorizer: %w", err)
		}
		opts = append(opts, ranker.WithAuthorizer(authorizer))
	}

	r := ranker.New(owner, credential, session, st, opts...)
	return &rank.BilinearNode{Ranker: r}, nil
}

func buildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := int(conv.ConfigGetInt64(cfg, "n", 0))
	return &rerank.TopNNode{N: n}, nil
}
