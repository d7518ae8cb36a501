package neural

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestNewShapes(t *testing.T) {
	nn, err := New(newRNG(42), 10, 17, 12, 12, 9)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if nn.Inputs() != 17 {
		t.Errorf("inputs: got %d, want 17", nn.Inputs())
	}
	if nn.Outputs() != 9 {
		t.Errorf("outputs: got %d, want 9", nn.Outputs())
	}

	want := [][2]int{{12, 18}, {12, 13}, {9, 13}}
	for i, l := range nn.Layers() {
		r, c := l.W.Dims()
		if r != want[i][0] || c != want[i][1] {
			t.Errorf("layer %d: got %dx%d, want %dx%d", i, r, c, want[i][0], want[i][1])
		}
		if l.UseTanh != (i == 2) {
			t.Errorf("layer %d: tanh = %v", i, l.UseTanh)
		}
	}
}

func TestNewRejectsBadSizes(t *testing.T) {
	if _, err := New(newRNG(1), 10, 5); err == nil {
		t.Error("expected error for a single layer size")
	}
	if _, err := New(newRNG(1), 10, 5, 0, 3); err == nil {
		t.Error("expected error for an empty layer")
	}
}

func TestForwardDeterministic(t *testing.T) {
	nn, _ := New(newRNG(42), 10, 17, 12, 12, 9)

	inputs := make([]float64, 17)
	for i := range inputs {
		inputs[i] = float64(i) / 17
	}

	a := nn.Forward(inputs)
	b := nn.Forward(inputs)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("output %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestForwardOutputRange(t *testing.T) {
	rng := newRNG(7)
	nn, _ := New(rng, 10, 4, 8, 3)

	for i := 0; i < 100; i++ {
		in := []float64{rng.NormFloat64() * 100, rng.NormFloat64(), 1e6, -1e6}
		for _, v := range nn.Forward(in) {
			if v < -1 || v > 1 || math.IsNaN(v) {
				t.Fatalf("output out of [-1,1]: %v", v)
			}
		}
	}
}

func TestForwardKnownWeights(t *testing.T) {
	// 2 inputs -> 1 hidden (relu) -> 1 output (tanh)
	nn, err := FromWeights(Weights{
		MaxWeight: 10,
		Layers: []LayerWeights{
			{Rows: 1, Cols: 3, Data: []float64{1, -1, 0.5}},
			{Rows: 1, Cols: 2, Tanh: true, Data: []float64{2, 0}},
		},
	})
	if err != nil {
		t.Fatalf("FromWeights failed: %v", err)
	}

	// hidden = relu(3 - 1 + 0.5) = 2.5, out = tanh(5)
	if got := nn.Forward([]float64{3, 1})[0]; math.Abs(got-math.Tanh(5)) > 1e-12 {
		t.Errorf("got %v, want %v", got, math.Tanh(5))
	}
	// hidden = relu(-2.5) = 0, out = tanh(0)
	if got := nn.Forward([]float64{-3, 0})[0]; got != 0 {
		t.Errorf("got %v, want 0", got)
	}
}

func TestTraceRecordsEveryLayer(t *testing.T) {
	nn, _ := FromWeights(Weights{
		MaxWeight: 10,
		Layers: []LayerWeights{
			{Rows: 1, Cols: 3, Data: []float64{1, -1, 0.5}},
			{Rows: 1, Cols: 2, Tanh: true, Data: []float64{2, 0}},
		},
	})

	in := []float64{3, 1}
	act := nn.Trace(in)
	if len(act.Layers) != 3 {
		t.Fatalf("layers: got %d, want 3", len(act.Layers))
	}
	if act.Layers[1][0] != 2.5 {
		t.Errorf("hidden: got %v, want 2.5", act.Layers[1][0])
	}
	if got, want := act.Layers[2][0], nn.Forward(in)[0]; got != want {
		t.Errorf("output: got %v, want %v", got, want)
	}

	in[0] = 100
	if act.Layers[0][0] != 3 {
		t.Error("trace must copy its input")
	}
}

func TestMutateClampsAndCopies(t *testing.T) {
	rng := newRNG(3)
	nn, _ := New(rng, 0.5, 6, 6, 2)
	before := nn.Weights()

	child := nn.Mutate(rng, 5)

	for i, l := range child.Weights().Layers {
		for j, v := range l.Data {
			if v < -0.5 || v > 0.5 {
				t.Fatalf("layer %d weight %d not clamped: %v", i, j, v)
			}
		}
	}

	after := nn.Weights()
	for i := range before.Layers {
		for j := range before.Layers[i].Data {
			if before.Layers[i].Data[j] != after.Layers[i].Data[j] {
				t.Fatal("Mutate modified the parent")
			}
		}
	}
}

func TestMutateChangesWeights(t *testing.T) {
	rng := newRNG(11)
	nn, _ := New(rng, 10, 3, 3)
	child := nn.Mutate(rng, 0.01)

	p, c := nn.Weights().Layers[0].Data, child.Weights().Layers[0].Data
	changed := 0
	for i := range p {
		if p[i] != c[i] {
			changed++
		}
		if math.Abs(p[i]-c[i]) > 0.1 {
			t.Errorf("weight %d moved too far for stddev 0.01: %v -> %v", i, p[i], c[i])
		}
	}
	if changed == 0 {
		t.Error("expected mutation to change weights")
	}
}

func TestWeightsRoundTrip(t *testing.T) {
	nn, _ := New(newRNG(5), 10, 17, 12, 12, 9)
	restored, err := FromWeights(nn.Weights())
	if err != nil {
		t.Fatalf("FromWeights failed: %v", err)
	}

	in := make([]float64, 17)
	for i := range in {
		in[i] = float64(i%3) - 1
	}
	a, b := nn.Forward(in), restored.Forward(in)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("output %d: got %v, want %v", i, b[i], a[i])
		}
	}
	if restored.MaxWeight() != 10 {
		t.Errorf("max weight: got %v, want 10", restored.MaxWeight())
	}
}

func TestFromWeightsRejectsMismatch(t *testing.T) {
	_, err := FromWeights(Weights{Layers: []LayerWeights{
		{Rows: 2, Cols: 3, Data: make([]float64, 6)},
		{Rows: 1, Cols: 4, Data: make([]float64, 4)},
	}})
	if !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("got %v, want ErrInvalidWeights", err)
	}

	_, err = FromWeights(Weights{Layers: []LayerWeights{{Rows: 2, Cols: 3, Data: make([]float64, 5)}}})
	if !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("short data: got %v, want ErrInvalidWeights", err)
	}
}
