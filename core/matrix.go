package core

import "encoding/json"

// WeightMatrix 是学习到的双线性相似度矩阵 W（D×D）。
//
// 生命周期：
//   - 某个 ModelKey 首次使用时初始化为单位矩阵
//   - 此后从持久化存储加载
//   - 只有反馈学习（Hebbian 更新）会修改它
//   - 每次成功更新后整体持久化
type WeightMatrix struct {
	Dim  int         `json:"dim"`
	Rows [][]float64 `json:"rows"`
}

// NewIdentityMatrix 创建 dim×dim 的单位矩阵，即模型的初始状态。
func NewIdentityMatrix(dim int) *WeightMatrix {
	rows := make([][]float64, dim)
	for i := range rows {
		rows[i] = make([]float64, dim)
		rows[i][i] = 1
	}
	return &WeightMatrix{Dim: dim, Rows: rows}
}

// Clone 返回深拷贝。Resolve 返回的矩阵可能被共享缓存，修改前必须拷贝。
func (w *WeightMatrix) Clone() *WeightMatrix {
	rows := make([][]float64, w.Dim)
	for i := range w.Rows {
		rows[i] = make([]float64, w.Dim)
		copy(rows[i], w.Rows[i])
	}
	return &WeightMatrix{Dim: w.Dim, Rows: rows}
}

// Energy 计算双线性能量 -0.5 * qᵀ·W·c，能量越低表示候选与 query 越匹配。
func (w *WeightMatrix) Energy(query, candidate Vector) float64 {
	var sum float64
	for j := 0; j < w.Dim; j++ {
		row := w.Rows[j]
		var wc float64
		for k := 0; k < w.Dim; k++ {
			wc += row[k] * candidate[k]
		}
		sum += query[j] * wc
	}
	return -0.5 * sum
}

// AddOuter 累加外积更新：W[j][k] += scale * candidate[j] * query[k]。
// 这是 Hebbian 式的关联强化，scale 通常为 learning_rate * label。
func (w *WeightMatrix) AddOuter(candidate, query Vector, scale float64) {
	if scale == 0 {
		return
	}
	for j := 0; j < w.Dim; j++ {
		cj := scale * candidate[j]
		row := w.Rows[j]
		for k := 0; k < w.Dim; k++ {
			row[k] += cj * query[k]
		}
	}
}

// Marshal 将矩阵序列化为存储 blob。
// Go 的 JSON float64 编码使用最短往返表示，write 后 read 可精确还原。
func (w *WeightMatrix) Marshal() ([]byte, error) {
	return json.Marshal(w)
}

// UnmarshalWeightMatrix 从存储 blob 还原矩阵，并校验形状。
func UnmarshalWeightMatrix(data []byte) (*WeightMatrix, error) {
	var w WeightMatrix
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, NewDomainError(ModuleModel, ErrorCodeStorageFailure, "model: decode weight matrix: "+err.Error())
	}
	if w.Dim <= 0 || len(w.Rows) != w.Dim {
		return nil, NewDomainError(ModuleModel, ErrorCodeStorageFailure, "model: corrupt weight matrix blob")
	}
	for _, row := range w.Rows {
		if len(row) != w.Dim {
			return nil, NewDomainError(ModuleModel, ErrorCodeStorageFailure, "model: corrupt weight matrix blob")
		}
	}
	return &w, nil
}
