// Package neural provides the feed-forward network used as an individual's brain.
package neural

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Layer is one fully connected layer. Each row of W holds the weights towards
// one output neuron; the last column is the bias.
type Layer struct {
	W       *mat.Dense
	UseTanh bool // tanh instead of ReLU
}

// Network is a fixed-topology feed-forward network: ReLU on every layer but the
// last, tanh on the last. It is never trained; it only mutates.
type Network struct {
	layers    []Layer
	maxWeight float64
}

// New creates a network with the given layer sizes (input, hidden..., output).
// Weights use Xavier/Glorot initialization: N(0, sqrt(2/(in+out))).
func New(rng *rand.Rand, maxWeight float64, sizes ...int) (*Network, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("need at least 2 layer sizes, got %d", len(sizes))
	}
	for i, s := range sizes {
		if s <= 0 {
			return nil, fmt.Errorf("layer %d has size %d", i, s)
		}
	}

	nn := &Network{
		layers:    make([]Layer, len(sizes)-1),
		maxWeight: maxWeight,
	}
	for i := range nn.layers {
		in, out := sizes[i], sizes[i+1]
		scale := math.Sqrt(2.0 / float64(in+out))
		data := make([]float64, out*(in+1))
		for j := range data {
			data[j] = rng.NormFloat64() * scale
		}
		nn.layers[i] = Layer{
			W:       mat.NewDense(out, in+1, data),
			UseTanh: i == len(nn.layers)-1,
		}
	}
	return nn, nil
}

// Inputs returns the expected input vector length.
func (nn *Network) Inputs() int {
	_, c := nn.layers[0].W.Dims()
	return c - 1
}

// Outputs returns the output vector length.
func (nn *Network) Outputs() int {
	r, _ := nn.layers[len(nn.layers)-1].W.Dims()
	return r
}

// MaxWeight returns the mutation clamp.
func (nn *Network) MaxWeight() float64 {
	return nn.maxWeight
}

// Layers returns the layers. Callers must not modify them.
func (nn *Network) Layers() []Layer {
	return nn.layers
}

// Forward computes the network output. It panics if len(input) != Inputs().
func (nn *Network) Forward(input []float64) []float64 {
	x := input
	for _, l := range nn.layers {
		x = l.forward(x)
	}
	return x
}

// Activations holds the values of every layer for one forward pass, input
// layer first and output layer last.
type Activations struct {
	Layers [][]float64
}

// Trace runs a forward pass and records every layer's values.
func (nn *Network) Trace(input []float64) Activations {
	act := Activations{Layers: make([][]float64, 0, len(nn.layers)+1)}
	act.Layers = append(act.Layers, append([]float64(nil), input...))
	x := input
	for _, l := range nn.layers {
		x = l.forward(x)
		act.Layers = append(act.Layers, x)
	}
	return act
}

func (l Layer) forward(input []float64) []float64 {
	withBias := make([]float64, len(input)+1)
	copy(withBias, input)
	withBias[len(input)] = 1.0

	rows, _ := l.W.Dims()
	out := mat.NewVecDense(rows, nil)
	out.MulVec(l.W, mat.NewVecDense(len(withBias), withBias))

	res := out.RawVector().Data
	for i, v := range res {
		if l.UseTanh {
			res[i] = math.Tanh(v)
		} else {
			res[i] = relu(v)
		}
	}
	return res
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Mutate returns a copy of the network with zero-mean Gaussian noise of the
// given standard deviation added to every weight, clamped to ±MaxWeight.
// The receiver is left untouched.
func (nn *Network) Mutate(rng *rand.Rand, stddev float64) *Network {
	child := &Network{
		layers:    make([]Layer, len(nn.layers)),
		maxWeight: nn.maxWeight,
	}
	for i, l := range nn.layers {
		var w mat.Dense
		w.Apply(func(_, _ int, v float64) float64 {
			return clamp(v+rng.NormFloat64()*stddev, -nn.maxWeight, nn.maxWeight)
		}, l.W)
		child.layers[i] = Layer{W: &w, UseTanh: l.UseTanh}
	}
	return child
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}

// Weights holds a network in plain form for serialization.
type Weights struct {
	MaxWeight float64        `json:"max_weight"`
	Layers    []LayerWeights `json:"layers"`
}

// LayerWeights is one layer in row-major order.
type LayerWeights struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Tanh bool      `json:"tanh"`
	Data []float64 `json:"data"`
}

// Weights flattens the network for serialization.
func (nn *Network) Weights() Weights {
	w := Weights{
		MaxWeight: nn.maxWeight,
		Layers:    make([]LayerWeights, len(nn.layers)),
	}
	for i, l := range nn.layers {
		r, c := l.W.Dims()
		data := make([]float64, 0, r*c)
		for y := 0; y < r; y++ {
			data = append(data, l.W.RawRowView(y)...)
		}
		w.Layers[i] = LayerWeights{Rows: r, Cols: c, Tanh: l.UseTanh, Data: data}
	}
	return w
}

// ErrInvalidWeights is returned by FromWeights for inconsistent layer shapes.
var ErrInvalidWeights = errors.New("invalid network weights")

// FromWeights rebuilds a network, validating that consecutive layers fit.
func FromWeights(w Weights) (*Network, error) {
	if len(w.Layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrInvalidWeights)
	}
	nn := &Network{
		layers:    make([]Layer, len(w.Layers)),
		maxWeight: w.MaxWeight,
	}
	for i, lw := range w.Layers {
		if lw.Rows <= 0 || lw.Cols < 2 || len(lw.Data) != lw.Rows*lw.Cols {
			return nil, fmt.Errorf("%w: layer %d is %dx%d with %d values",
				ErrInvalidWeights, i, lw.Rows, lw.Cols, len(lw.Data))
		}
		if i > 0 && w.Layers[i-1].Rows != lw.Cols-1 {
			return nil, fmt.Errorf("%w: layer %d expects %d inputs, previous layer has %d outputs",
				ErrInvalidWeights, i, lw.Cols-1, w.Layers[i-1].Rows)
		}
		data := make([]float64, len(lw.Data))
		copy(data, lw.Data)
		nn.layers[i] = Layer{W: mat.NewDense(lw.Rows, lw.Cols, data), UseTanh: lw.Tanh}
	}
	return nn, nil
}
