package core

import "github.com/rushteam/innermatch/pkg/utils"

// Candidate 是排序链路中的统一承载结构：向量、分数、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策（分数越高排名越靠前）。
type Candidate struct {
	ID     string
	Vector Vector
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewCandidate(id string, vec Vector) *Candidate {
	return &Candidate{
		ID:     id,
		Vector: vec,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// QueryContext 承载一次排序请求的身份与 query 信息，贯穿整个 Pipeline 透传。
type QueryContext struct {
	Owner      string
	Credential string
	Session    string

	// Query 是本次请求的 query 向量
	Query Vector

	// Params 请求级上下文参数（scene、trace_id 等）
	Params map[string]any

	// Labels 是请求级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label
}

// Key 返回本次请求对应的 ModelKey。
func (q *QueryContext) Key() ModelKey {
	return ModelKey{Owner: q.Owner, Session: q.Session}
}

// PutLabel 写入请求级 Label。
func (q *QueryContext) PutLabel(key string, lbl utils.Label) {
	if q.Labels == nil {
		q.Labels = make(map[string]utils.Label)
	}
	if old, ok := q.Labels[key]; ok {
		q.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	q.Labels[key] = lbl
}
