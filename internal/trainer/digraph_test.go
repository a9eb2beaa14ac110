package trainer_test

import (
	"testing"

	"github.com/nic-ch/naive-supervised/internal/trainer"
)

func mustDigraph(t *testing.T, rows, cols int, inputs []uint16) *trainer.Digraph {
	t.Helper()
	d, err := trainer.NewDigraph(rows, cols, inputs)
	if err != nil {
		t.Fatalf("new digraph: %v", err)
	}
	return d
}

func constantWeights(count int, value int16) []int16 {
	weights := make([]int16, count)
	for i := range weights {
		weights[i] = value
	}
	return weights
}

func TestLayerWidths(t *testing.T) {
	cases := []struct {
		rows int
		want []int
	}{
		{2, []int{4, 2, 1}},
		{3, []int{6, 3, 2, 1}},
		{5, []int{10, 5, 3, 2, 1}},
	}
	for _, tc := range cases {
		got := trainer.LayerWidths(tc.rows)
		if len(got) != len(tc.want) {
			t.Fatalf("LayerWidths(%d) = %v, want %v", tc.rows, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("LayerWidths(%d) = %v, want %v", tc.rows, got, tc.want)
			}
		}
	}
}

func TestRequiredWeightsCount(t *testing.T) {
	// Two weight banks per row on the input layer, then one outgoing weight
	// per value on every layer except the sink.
	cases := []struct {
		rows, cols, want int
	}{
		{2, 2, 14},
		{3, 2, 23},
		{5, 5, 70},
	}
	for _, tc := range cases {
		if got := trainer.RequiredWeightsCount(tc.rows, tc.cols); got != tc.want {
			t.Fatalf("RequiredWeightsCount(%d, %d) = %d, want %d", tc.rows, tc.cols, got, tc.want)
		}
	}
}

func TestEvaluateUnitWeights(t *testing.T) {
	// 2x2 matrix [[1,2],[3,4]] under all-one weights: the first layer doubles
	// each row sum into [3,3,7,7], and every interior pair vanishes under the
	// 15-bit shift.
	d := mustDigraph(t, 2, 2, []uint16{1, 2, 3, 4})
	if err := d.BindWeights(constantWeights(d.RequiredWeightsCount(), 1)); err != nil {
		t.Fatalf("bind weights: %v", err)
	}
	d.Evaluate()
	if got := d.Sink(); got != 0 {
		t.Fatalf("sink = %d, want 0", got)
	}
}

func TestEvaluateLargeOperands(t *testing.T) {
	// All inputs 40000, all weights 30000. First layer: 2*40000*30000.
	// Interior values stay inside 64 bits through both reductions.
	d := mustDigraph(t, 2, 2, []uint16{40000, 40000, 40000, 40000})
	if err := d.BindWeights(constantWeights(d.RequiredWeightsCount(), 30000)); err != nil {
		t.Fatalf("bind weights: %v", err)
	}
	d.Evaluate()

	// L0: 2.4e9 each. L1: (2.4e9*30000*2)>>15 = 4394531250 each.
	// Sink: (4394531250*30000*2)>>15 = 8046627044.
	if got := d.Sink(); got != 8046627044 {
		t.Fatalf("sink = %d, want 8046627044", got)
	}
}

func TestEvaluateArithmeticShift(t *testing.T) {
	// Negative intermediates must shift toward minus infinity: -4 >> 15 is
	// -1, not 0.
	d := mustDigraph(t, 2, 2, []uint16{1, 1, 1, 1})
	weights := constantWeights(d.RequiredWeightsCount(), 1)
	for i := 8; i < 12; i++ {
		weights[i] = -1
	}
	if err := d.BindWeights(weights); err != nil {
		t.Fatalf("bind weights: %v", err)
	}
	d.Evaluate()

	// L0 = [2,2,2,2]; L1 = [(2*-1 + 2*-1)>>15, same] = [-1,-1];
	// sink = (-1 + -1)>>15 = -1.
	if got := d.Sink(); got != -1 {
		t.Fatalf("sink = %d, want -1", got)
	}
}

func TestEvaluateOddLayerWidth(t *testing.T) {
	// 3 rows give layer widths 6 -> 3 -> 2 -> 1, exercising the forwarded odd
	// tail on the 3 -> 2 reduction.
	d := mustDigraph(t, 3, 2, []uint16{1, 0, 0, 1, 1, 1})
	if d.RequiredWeightsCount() != 23 {
		t.Fatalf("required weights = %d, want 23", d.RequiredWeightsCount())
	}
	if err := d.BindWeights(constantWeights(23, 1)); err != nil {
		t.Fatalf("bind weights: %v", err)
	}
	d.Evaluate()
	if got := d.Sink(); got != 0 {
		t.Fatalf("sink = %d, want 0", got)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	inputs := []uint16{9, 55, 1000, 65535, 3, 17, 40000, 12345}
	a := mustDigraph(t, 4, 2, inputs)
	b := mustDigraph(t, 4, 2, inputs)

	weights := make([]int16, a.RequiredWeightsCount())
	for i := range weights {
		weights[i] = int16(i*2641 - 16000)
	}
	if err := a.BindWeights(weights); err != nil {
		t.Fatalf("bind a: %v", err)
	}
	if err := b.BindWeights(weights); err != nil {
		t.Fatalf("bind b: %v", err)
	}

	a.Evaluate()
	for i := 0; i < 10; i++ {
		b.Evaluate()
		if a.Sink() != b.Sink() {
			t.Fatalf("evaluation not deterministic: %d vs %d", a.Sink(), b.Sink())
		}
	}
}

func TestNewDigraphRejectsSmallMatrices(t *testing.T) {
	if _, err := trainer.NewDigraph(1, 5, make([]uint16, 5)); err == nil {
		t.Fatal("expected error for a single-row matrix")
	}
	if _, err := trainer.NewDigraph(5, 1, make([]uint16, 5)); err == nil {
		t.Fatal("expected error for a single-column matrix")
	}
}
