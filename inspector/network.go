package inspector

import (
	"fmt"
	"math"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aipop/neural"
)

// Input labels for the neural network visualization, in sensor order.
// Memory inputs follow and are labeled by index.
var InputLabels = []string{
	"Energy", "Pos X", "Pos Y", "Vel X", "Vel Y", "Spin",
	"Food dir", "Food near", "Enemy dir", "Enemy near", "Enemy hue", "Enemy sat",
}

// Output labels for the neural network visualization. Memory outputs follow.
var OutputLabels = []string{"Thrust", "Turn", "Eat", "Reproduce"}

// NetworkColors for activation visualization.
var (
	ColorNodeInactive = rl.Color{R: 60, G: 60, B: 60, A: 255}
	ColorNodePositive = rl.Color{R: 255, G: 30, B: 30, A: 255}
	ColorNodeNegative = rl.Color{R: 30, G: 30, B: 255, A: 255}
	ColorEdgePositive = rl.Color{R: 200, G: 80, B: 80, A: 100}
	ColorEdgeNegative = rl.Color{R: 80, G: 80, B: 200, A: 100}
	ColorLabelDim     = rl.Color{R: 120, G: 120, B: 120, A: 255}
)

// Edges lighter than this are not drawn.
const minEdgeWeight = 0.1

func inputLabel(i int) string {
	if i < len(InputLabels) {
		return InputLabels[i]
	}
	return fmt.Sprintf("Mem %d", i-len(InputLabels))
}

func outputLabel(i int) string {
	if i < len(OutputLabels) {
		return OutputLabels[i]
	}
	return fmt.Sprintf("Mem %d", i-len(OutputLabels))
}

// layerSizes returns the node count of every layer, input first.
func layerSizes(nn *neural.Network) []int {
	sizes := []int{nn.Inputs()}
	for _, l := range nn.Layers() {
		r, _ := l.W.Dims()
		sizes = append(sizes, r)
	}
	return sizes
}

// nodePositions spreads the layers over equal-width columns of the box and
// centers each layer vertically.
func nodePositions(x, y, width, height int32, sizes []int) [][]rl.Vector2 {
	usable := float32(height - 20)
	colWidth := float32(width) / float32(len(sizes))

	spacing := usable
	for _, n := range sizes {
		spacing = min(spacing, usable/float32(n))
	}

	out := make([][]rl.Vector2, len(sizes))
	for l, n := range sizes {
		colX := float32(x) + float32(l)*colWidth + colWidth/2
		top := float32(y) + 10 + (usable-float32(n)*spacing)/2 + spacing/2
		out[l] = make([]rl.Vector2, n)
		for i := range n {
			out[l][i] = rl.Vector2{X: colX, Y: top + float32(i)*spacing}
		}
	}
	return out
}

// DrawNetworkDiagram renders the network and, when input is set, the
// activations it produces.
func DrawNetworkDiagram(x, y, width, height int32, nn *neural.Network, input []float64) {
	if nn == nil {
		rl.DrawText("No network data", x+10, y+10, 14, ColorLabelDim)
		return
	}

	sizes := layerSizes(nn)
	nodes := nodePositions(x, y, width, height, sizes)

	var act neural.Activations
	if len(input) == nn.Inputs() {
		act = nn.Trace(input)
	}

	spacing := float32(height-20) / float32(slices.Max(sizes))
	nodeRadius := min(float32(6), spacing/2-1)

	// Edges (bias column excluded)
	for l, layer := range nn.Layers() {
		rows, _ := layer.W.Dims()
		for o := range rows {
			for i := range sizes[l] {
				w := layer.W.At(o, i)
				if math.Abs(w) < minEdgeWeight {
					continue
				}
				drawEdge(nodes[l][i], nodes[l+1][o], float32(w))
			}
		}
	}

	last := len(sizes) - 1
	for l, column := range nodes {
		for i, pos := range column {
			var activation float32
			if act.Layers != nil {
				activation = float32(act.Layers[l][i])
			}
			drawNode(pos, nodeRadius, activation)

			switch l {
			case 0:
				label := inputLabel(i)
				labelWidth := rl.MeasureText(label, 10)
				rl.DrawText(label, int32(pos.X-nodeRadius)-labelWidth-4, int32(pos.Y)-5, 10, ColorLabelDim)
			case last:
				rl.DrawText(outputLabel(i), int32(pos.X+nodeRadius+4), int32(pos.Y)-5, 10, ColorLabelDim)
			}
		}
	}
}

// drawNode renders a single neuron node.
func drawNode(pos rl.Vector2, radius, activation float32) {
	rl.DrawCircleV(pos, radius, activationColor(activation))
	rl.DrawCircleLinesV(pos, radius, rl.Color{R: 100, G: 100, B: 100, A: 255})
}

// drawEdge renders a connection between nodes.
func drawEdge(from, to rl.Vector2, weight float32) {
	mag := float32(math.Abs(float64(weight)))
	thickness := min(max(mag*1.5, 0.5), 3)

	color := ColorEdgePositive
	if weight < 0 {
		color = ColorEdgeNegative
	}
	color.A = uint8(min(40+mag*40, 150))

	rl.DrawLineEx(from, to, thickness, color)
}

// activationColor returns a color based on activation value.
// Negative = blue, Zero = gray, Positive = red.
func activationColor(activation float32) rl.Color {
	if activation >= 0 {
		return lerpColor(ColorNodeInactive, ColorNodePositive, min(activation, 1))
	}
	return lerpColor(ColorNodeInactive, ColorNodeNegative, min(-activation, 1))
}
