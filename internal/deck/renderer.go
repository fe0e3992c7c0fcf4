package deck

import "errors"

// ErrUnavailable signals that no raster backend can produce images in this
// environment. The deck builder treats it as "skip the chart", never as a
// failure of the run.
var ErrUnavailable = errors.New("image renderer unavailable")

// ChartKind selects the chart layout.
type ChartKind string

const (
	ChartBar ChartKind = "bar"
	ChartPie ChartKind = "pie"
)

// ChartValue is one labeled value of a chart.
type ChartValue struct {
	Label string
	Value float64
}

// ChartSpec is the renderer-agnostic description of a chart. The engine and
// the deck builder only ever deal in specs; turning one into pixels is the
// renderer's problem.
type ChartSpec struct {
	Kind   ChartKind
	Title  string
	Values []ChartValue
	// RefLine draws a horizontal reference (the pass mark); zero disables it.
	RefLine float64
	// MaxValue fixes the axis top (the 0-20 grade scale); zero autoscales.
	MaxValue float64
}

// ImageRenderer rasterizes a chart spec into an encoded image. Implementations
// return ErrUnavailable when the backend cannot run at all, and chart-specific
// errors otherwise; both degrade the affected slide to text only.
type ImageRenderer interface {
	Render(spec ChartSpec) ([]byte, error)
}

// unavailableRenderer is the null backend.
type unavailableRenderer struct{}

func (unavailableRenderer) Render(ChartSpec) ([]byte, error) { return nil, ErrUnavailable }

// Unavailable returns a renderer that always reports ErrUnavailable.
func Unavailable() ImageRenderer { return unavailableRenderer{} }
