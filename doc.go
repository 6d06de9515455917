// Package innermatch 是一个反馈驱动的双线性排序工具包。
//
// 设计要点：
// - 能量打分: e = -0.5 * qᵀ·W·c，能量越低候选越匹配
// - Hebbian 学习: W += lr * label * outer(c, q)，按 (owner, session) 隔离并持久化
// - Pipeline 可扩展: 排序/截断逻辑通过 Node 串联，自定义 Node 即可插拔扩展
package innermatch

import (
	"github.com/rushteam/innermatch/core"
	"github.com/rushteam/innermatch/pipeline"
	"github.com/rushteam/innermatch/ranker"
)

// 轻量 facade：便于用户直接 import "innermatch" 使用核心抽象。
type Ranker = ranker.Ranker
type Vector = core.Vector
type ModelKey = core.ModelKey
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

// New 创建一个绑定 (owner, session) 的 Ranker，详见 ranker.New。
var New = ranker.New
