package core

import (
	"math"
	"testing"
)

func TestNewIdentityMatrix(t *testing.T) {
	w := NewIdentityMatrix(4)
	if w.Dim != 4 || len(w.Rows) != 4 {
		t.Fatalf("unexpected shape: dim=%d rows=%d", w.Dim, len(w.Rows))
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if w.Rows[i][j] != want {
				t.Errorf("W[%d][%d] = %v, want %v", i, j, w.Rows[i][j], want)
			}
		}
	}
}

func TestWeightMatrix_Energy(t *testing.T) {
	tests := []struct {
		name      string
		w         *WeightMatrix
		query     Vector
		candidate Vector
		want      float64
	}{
		{
			name:      "identity reduces to -0.5 dot product",
			w:         NewIdentityMatrix(3),
			query:     Vector{1, 2, 3},
			candidate: Vector{4, 5, 6},
			want:      -0.5 * (4 + 10 + 18),
		},
		{
			name:      "orthogonal pair under identity",
			w:         NewIdentityMatrix(2),
			query:     Vector{1, 0},
			candidate: Vector{0, 1},
			want:      0,
		},
		{
			name: "learned off-diagonal weight",
			w: &WeightMatrix{Dim: 2, Rows: [][]float64{
				{1, 0},
				{2, 1},
			}},
			query:     Vector{0, 1},
			candidate: Vector{1, 0},
			want:      -0.5 * 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.w.Energy(tt.query, tt.candidate)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Energy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeightMatrix_AddOuter(t *testing.T) {
	w := NewIdentityMatrix(3)
	w.AddOuter(Vector{1, 0, 0}, Vector{0, 1, 0}, 1.0)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if i == 0 && j == 1 {
				want = 1.0
			}
			if w.Rows[i][j] != want {
				t.Errorf("W[%d][%d] = %v, want %v", i, j, w.Rows[i][j], want)
			}
		}
	}
}

func TestWeightMatrix_AddOuterZeroScale(t *testing.T) {
	w := NewIdentityMatrix(2)
	w.AddOuter(Vector{3, 4}, Vector{5, 6}, 0)

	id := NewIdentityMatrix(2)
	for i := range w.Rows {
		for j := range w.Rows[i] {
			if w.Rows[i][j] != id.Rows[i][j] {
				t.Errorf("W[%d][%d] = %v, want unchanged %v", i, j, w.Rows[i][j], id.Rows[i][j])
			}
		}
	}
}

func TestWeightMatrixMarshalRoundTrip(t *testing.T) {
	w := NewIdentityMatrix(3)
	w.AddOuter(Vector{0.1, 0.2, 0.3}, Vector{1.5, -2.25, 1e-9}, 0.7)

	data, err := w.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := UnmarshalWeightMatrix(data)
	if err != nil {
		t.Fatalf("UnmarshalWeightMatrix() error = %v", err)
	}

	if got.Dim != w.Dim {
		t.Fatalf("dim = %d, want %d", got.Dim, w.Dim)
	}
	for i := range w.Rows {
		for j := range w.Rows[i] {
			if got.Rows[i][j] != w.Rows[i][j] {
				t.Errorf("W[%d][%d] = %v, want exact %v", i, j, got.Rows[i][j], w.Rows[i][j])
			}
		}
	}
}

func TestUnmarshalWeightMatrix_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "not-json"},
		{"zero dim", `{"dim":0,"rows":[]}`},
		{"row count mismatch", `{"dim":2,"rows":[[1,0]]}`},
		{"row length mismatch", `{"dim":2,"rows":[[1,0],[0]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalWeightMatrix([]byte(tt.data)); err == nil {
				t.Errorf("expected error for %q", tt.data)
			}
		})
	}
}

func TestWeightMatrix_Clone(t *testing.T) {
	w := NewIdentityMatrix(2)
	c := w.Clone()
	c.Rows[0][1] = 9

	if w.Rows[0][1] != 0 {
		t.Errorf("clone mutation leaked into original: W[0][1] = %v", w.Rows[0][1])
	}
}
