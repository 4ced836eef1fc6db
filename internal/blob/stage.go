package blob

import "github.com/Faultbox/blobscene/internal/preset"

// Label placement.
const (
	LabelY = -0.1
	LabelZ = 3.0

	// fontReferenceHeight is the viewport height at which labels are one
	// world unit tall.
	fontReferenceHeight = 770
)

// LabelFontSize returns the label em size in world units for a viewport
// height in pixels.
func LabelFontSize(viewportHeight int) float64 {
	return float64(viewportHeight) / fontReferenceHeight
}

// InitialBackground is shown until the first preset color fades in.
var InitialBackground = preset.MustHex("#333333")

// Stage is the scene-level state around the blob.
type Stage struct {
	Background preset.Color
	// RotationY is the sphere's yaw in radians.
	RotationY float64
}

// NewStage returns a stage with the initial background.
func NewStage() *Stage {
	return &Stage{Background: InitialBackground}
}

// Label is one preset name rendered in 3D.
type Label struct {
	Text    string
	X, Y, Z float64
	// Scale is 0 when hidden, 1 when visible.
	Scale float64
}

// Visible reports whether the label is drawn.
func (l *Label) Visible() bool {
	return l.Scale > 0
}

// Labels holds one label per preset, indexed like the catalog.
type Labels struct {
	items []*Label
}

// NewLabels creates labels for names; only index 0 starts visible.
func NewLabels(names []string) *Labels {
	items := make([]*Label, len(names))
	for i, name := range names {
		l := &Label{Text: name, Y: LabelY, Z: LabelZ}
		if i == 0 {
			l.Scale = 1
		}
		items[i] = l
	}
	return &Labels{items: items}
}

// At returns the label for preset i.
func (ls *Labels) At(i int) *Label {
	return ls.items[i]
}

// Items returns the labels in catalog order.
func (ls *Labels) Items() []*Label {
	return ls.items
}

// Len returns the number of labels.
func (ls *Labels) Len() int {
	return len(ls.items)
}

// VisibleCount returns how many labels have a non-zero scale.
func (ls *Labels) VisibleCount() int {
	n := 0
	for _, l := range ls.items {
		if l.Visible() {
			n++
		}
	}
	return n
}

// TextUniforms are shared by every label's material.
type TextUniforms struct {
	// Progress drives the reveal wipe, in [0, 0.5] per transition.
	Progress float64
	// Direction is the sign of the last transition.
	Direction float64
}
