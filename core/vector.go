package core

// Vector 是一条嵌入向量（query 或候选），维度 D 由首次使用时确定。
// 同一次 Rank / Feedback 调用中的所有向量必须维度一致。
type Vector []float64

// Dim 返回向量维度。
func (v Vector) Dim() int { return len(v) }

// ModelKey 标识一个独立的权重矩阵：同一 Owner 的不同 Session 互不影响。
type ModelKey struct {
	Owner   string
	Session string
}

// StorageKey 返回持久化使用的 key，命名规则为 "<owner>_<session>"。
func (k ModelKey) StorageKey() string {
	return k.Owner + "_" + k.Session
}

// Dot 计算两个向量的内积。维度校验由调用方负责。
func Dot(a, b Vector) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
