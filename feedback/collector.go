// Package feedback 提供反馈事件的收集与批量回灌。
//
// 在线链路通常不适合在请求路径上同步做模型更新，BufferedCollector
// 把 (候选, query, label) 观测先缓冲起来，按批量大小或时间间隔
// 统一调用 Learner.Feedback 回灌。
package feedback

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/innermatch/core"
)

// Event 反馈事件（轻量级，只包含必要信息）
type Event struct {
	Candidate core.Vector `json:"candidate"`
	Query     core.Vector `json:"query"`
	Label     int         `json:"label"`     // 0: 不相关, 1: 相关
	Position  int         `json:"position"`  // 候选在展示列表中的位置（仅观测，不参与学习）
	Timestamp int64       `json:"timestamp"` // Unix 时间戳（秒）
}

// Learner 是反馈回灌的目标。*ranker.Ranker 满足此接口。
type Learner interface {
	Feedback(ctx context.Context, candidates, queries []core.Vector, labels []int) error
}

// Collector 反馈收集器接口（异步非阻塞）
type Collector interface {
	// Record 异步记录一条观测（不阻塞，缓冲满时返回错误）
	Record(ctx context.Context, ev Event) error

	// Close 优雅关闭（等待缓冲数据回灌完成）
	Close() error
}

// BufferedCollector 是 Collector 的默认实现：
// channel 缓冲 + 后台 goroutine，按 FlushSize 或 FlushInterval 触发回灌。
type BufferedCollector struct {
	learner Learner

	ch        chan Event
	flushSize int
	interval  time.Duration
	onError   func(error)

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// CollectorOption 用于定制 BufferedCollector。
type CollectorOption func(*BufferedCollector)

// WithFlushSize 设置触发回灌的批量大小（默认 32）。
func WithFlushSize(n int) CollectorOption {
	return func(c *BufferedCollector) {
		if n > 0 {
			c.flushSize = n
		}
	}
}

// WithFlushInterval 设置定时回灌间隔（默认 5s）。
func WithFlushInterval(d time.Duration) CollectorOption {
	return func(c *BufferedCollector) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithBufferSize 设置事件缓冲大小（默认 1024）。
func WithBufferSize(n int) CollectorOption {
	return func(c *BufferedCollector) {
		if n > 0 {
			c.ch = make(chan Event, n)
		}
	}
}

// WithErrorHandler 设置回灌失败时的回调（默认丢弃错误）。
func WithErrorHandler(fn func(error)) CollectorOption {
	return func(c *BufferedCollector) { c.onError = fn }
}

// NewBufferedCollector 创建并启动收集器。
func NewBufferedCollector(learner Learner, opts ...CollectorOption) *BufferedCollector {
	c := &BufferedCollector{
		learner:   learner,
		ch:        make(chan Event, 1024),
		flushSize: 32,
		interval:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.wg.Add(1)
	go c.loop()
	return c
}

// Record 把观测放入缓冲。缓冲满时立即返回错误而不是阻塞调用方。
// Close 之后不得再调用 Record。
func (c *BufferedCollector) Record(ctx context.Context, ev Event) error {
	if ev.Label != 0 && ev.Label != 1 {
		return core.NewDomainError(core.ModuleRanker, core.ErrorCodeInvalidInput,
			"feedback: label must be 0 or 1")
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().Unix()
	}
	select {
	case c.ch <- ev:
		return nil
	default:
		return core.NewDomainError(core.ModuleRanker, core.ErrorCodeInvalidInput,
			"feedback: collector buffer full")
	}
}

// Close 停止收集并回灌剩余缓冲。
func (c *BufferedCollector) Close() error {
	c.closeOnce.Do(func() {
		close(c.ch)
	})
	c.wg.Wait()
	return nil
}

func (c *BufferedCollector) loop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	batch := make([]Event, 0, c.flushSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		c.flush(batch)
		batch = batch[:0]
	}

	for {
		select {
		case ev, ok := <-c.ch:
			if !ok {
				flush()
				return
			}
			batch = append(batch, ev)
			if len(batch) >= c.flushSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (c *BufferedCollector) flush(batch []Event) {
	candidates := make([]core.Vector, len(batch))
	queries := make([]core.Vector, len(batch))
	labels := make([]int, len(batch))
	for i, ev := range batch {
		candidates[i] = ev.Candidate
		queries[i] = ev.Query
		labels[i] = ev.Label
	}

	if err := c.learner.Feedback(context.Background(), candidates, queries, labels); err != nil {
		if c.onError != nil {
			c.onError(err)
		}
	}
}

var _ Collector = (*BufferedCollector)(nil)
