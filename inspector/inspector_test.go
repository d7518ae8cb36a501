package inspector

import (
	"math/rand/v2"
	"slices"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aipop/canvas"
	"github.com/pthm-cable/aipop/config"
	"github.com/pthm-cable/aipop/entity"
	"github.com/pthm-cable/aipop/geom"
	"github.com/pthm-cable/aipop/neural"
)

func newIndividual(t *testing.T, id uint64, pos geom.Vec) *entity.Individual {
	t.Helper()
	cfg := config.Default()
	brain, err := neural.New(rand.New(rand.NewPCG(id, id)), cfg.Neural.MaxWeight, cfg.Derived.BrainSizes...)
	if err != nil {
		t.Fatal(err)
	}
	return entity.NewIndividual(id, pos, 0, entity.FromRGB(0, 0x80, 0xff), brain, cfg)
}

func TestSelectClosestWithinReach(t *testing.T) {
	a := newIndividual(t, 1, geom.V(100, 100))
	b := newIndividual(t, 2, geom.V(120, 100))
	far := newIndividual(t, 3, geom.V(400, 400))
	inds := slices.Values([]*entity.Individual{a, b, far})

	ins := NewInspector(1280, 800, 60, 200)

	if ins.Select(inds, geom.V(700, 700)) {
		t.Error("click on empty arena should not select")
	}
	if _, ok := ins.SelectedID(); ok {
		t.Error("nothing should be selected yet")
	}

	if !ins.Select(inds, geom.V(117, 101)) {
		t.Fatal("expected a selection")
	}
	if id, _ := ins.SelectedID(); id != 2 {
		t.Errorf("got %d, want 2", id)
	}
	if got := ins.Selected(inds); got != b {
		t.Errorf("Selected: got %v, want individual 2", got)
	}

	// A miss keeps the current selection.
	ins.Select(inds, geom.V(700, 700))
	if id, _ := ins.SelectedID(); id != 2 {
		t.Errorf("selection lost on a miss: got %d", id)
	}
}

func TestSelectionClearedWhenGone(t *testing.T) {
	a := newIndividual(t, 1, geom.V(100, 100))
	ins := NewInspector(1280, 800, 60, 200)
	ins.Select(slices.Values([]*entity.Individual{a}), a.Pos())

	if got := ins.Selected(slices.Values([]*entity.Individual{})); got != nil {
		t.Errorf("got %v, want nil", got)
	}
	if _, ok := ins.SelectedID(); ok {
		t.Error("selection should be cleared")
	}
}

func TestPanelHitTesting(t *testing.T) {
	ins := NewInspector(1280, 800, 60, 200)
	if ins.PanelContains(1000, 50) {
		t.Error("closed panel should not capture clicks")
	}

	a := newIndividual(t, 1, geom.V(100, 100))
	ins.Select(slices.Values([]*entity.Individual{a}), a.Pos())

	panelX := float32(1280 - PanelWidth - 10)
	if !ins.PanelContains(panelX+5, 50) {
		t.Error("point on the panel should be contained")
	}
	if ins.PanelContains(panelX-5, 50) {
		t.Error("point left of the panel should not be contained")
	}
	if !ins.CloseButtonContains(panelX+PanelWidth-15, 15) {
		t.Error("close button not hit")
	}

	ins.Resize(1000, 800)
	if ins.PanelContains(panelX+5, 50) {
		t.Error("panel should move on resize")
	}
}

func TestDrawSelectionHighlight(t *testing.T) {
	var r canvas.Recorder
	DrawSelectionHighlight(&r, nil)
	if len(r.Ops) != 0 {
		t.Fatalf("nil individual drew %v", r.Ops)
	}

	a := newIndividual(t, 1, geom.V(100, 100))
	DrawSelectionHighlight(&r, a)
	want := geom.Circle{C: geom.V(100, 100), R: 36}
	if len(r.Ops) != 1 || r.Ops[0].Shape != want {
		t.Errorf("got %v, want a circle %v", r.Ops, want)
	}
}

func TestNodePositions(t *testing.T) {
	nodes := nodePositions(0, 0, 400, 220, []int{4, 2})

	if len(nodes) != 2 || len(nodes[0]) != 4 || len(nodes[1]) != 2 {
		t.Fatalf("unexpected layout shape: %v", nodes)
	}
	if nodes[0][0].X != 100 || nodes[1][0].X != 300 {
		t.Errorf("columns: got %v and %v, want 100 and 300", nodes[0][0].X, nodes[1][0].X)
	}
	// 200 usable px over 4 nodes: 50 px apart, starting half a step down.
	if nodes[0][0].Y != 35 || nodes[0][3].Y != 185 {
		t.Errorf("input rows: got %v..%v, want 35..185", nodes[0][0].Y, nodes[0][3].Y)
	}
	// The smaller layer is centered on the same spacing.
	if nodes[1][0].Y != 85 || nodes[1][1].Y != 135 {
		t.Errorf("output rows: got %v, %v, want 85, 135", nodes[1][0].Y, nodes[1][1].Y)
	}
}

func TestLabels(t *testing.T) {
	if len(InputLabels) != config.SensorInputs {
		t.Errorf("input labels: got %d, want %d", len(InputLabels), config.SensorInputs)
	}
	if len(OutputLabels) != config.ActionOutputs {
		t.Errorf("output labels: got %d, want %d", len(OutputLabels), config.ActionOutputs)
	}
	if got := inputLabel(13); got != "Mem 1" {
		t.Errorf("got %q, want Mem 1", got)
	}
	if got := outputLabel(1); got != "Turn" {
		t.Errorf("got %q, want Turn", got)
	}
}

func TestActivationColor(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want rl.Color
	}{
		{"zero", 0, ColorNodeInactive},
		{"positive saturates", 5, ColorNodePositive},
		{"negative saturates", -1, ColorNodeNegative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := activationColor(tt.in); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBarRatio(t *testing.T) {
	tests := []struct {
		value, max, want float32
	}{
		{50, 200, 0.25},
		{300, 200, 1},
		{-5, 200, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := barRatio(tt.value, tt.max); got != tt.want {
			t.Errorf("barRatio(%v, %v): got %v, want %v", tt.value, tt.max, got, tt.want)
		}
	}
}
