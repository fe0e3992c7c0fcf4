package deck

import (
	"bytes"
	"fmt"
	"image/png"
	"math"

	"github.com/fogleman/gg"
)

// RasterRenderer draws charts with a plain 2D canvas. It has no font
// dependency for labels beyond gg's built-in face, which keeps the backend
// self-contained.
type RasterRenderer struct {
	Width  int
	Height int
}

// NewRasterRenderer returns a renderer at the deck's slide-image size.
func NewRasterRenderer() *RasterRenderer {
	return &RasterRenderer{Width: 960, Height: 540}
}

var barPalette = [][3]float64{
	{0.39, 0.43, 0.98}, // indigo
	{0.94, 0.33, 0.23}, // red
	{0.00, 0.80, 0.59}, // green
	{1.00, 0.80, 0.32}, // amber
	{0.55, 0.36, 0.96}, // violet
	{0.20, 0.69, 0.87}, // cyan
}

// Render rasterizes a chart description to a PNG.
func (r *RasterRenderer) Render(spec ChartSpec) ([]byte, error) {
	if len(spec.Values) == 0 {
		return nil, fmt.Errorf("chart %q: no values", spec.Title)
	}
	switch spec.Kind {
	case ChartBar:
		return r.renderBar(spec)
	case ChartPie:
		return r.renderPie(spec)
	default:
		return nil, fmt.Errorf("chart %q: unsupported kind %q", spec.Title, spec.Kind)
	}
}

func (r *RasterRenderer) renderBar(spec ChartSpec) ([]byte, error) {
	dc := gg.NewContext(r.Width, r.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	const margin = 60.0
	plotW := float64(r.Width) - 2*margin
	plotH := float64(r.Height) - 2*margin

	maxV := spec.MaxValue
	if maxV <= 0 {
		for _, v := range spec.Values {
			if v.Value > maxV {
				maxV = v.Value
			}
		}
		if maxV <= 0 {
			maxV = 1
		}
	}

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(spec.Title, float64(r.Width)/2, margin/2, 0.5, 0.5)

	// axes
	dc.SetLineWidth(1)
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.DrawLine(margin, margin, margin, margin+plotH)
	dc.DrawLine(margin, margin+plotH, margin+plotW, margin+plotH)
	dc.Stroke()

	n := len(spec.Values)
	slot := plotW / float64(n)
	barW := slot * 0.6
	for i, v := range spec.Values {
		h := 0.0
		if !math.IsNaN(v.Value) {
			h = v.Value / maxV * plotH
		}
		x := margin + float64(i)*slot + (slot-barW)/2
		y := margin + plotH - h
		c := barPalette[i%len(barPalette)]
		dc.SetRGB(c[0], c[1], c[2])
		dc.DrawRectangle(x, y, barW, h)
		dc.Fill()

		dc.SetRGB(0.15, 0.15, 0.15)
		label := v.Label
		if len(label) > 14 {
			label = label[:14]
		}
		dc.DrawStringAnchored(label, x+barW/2, margin+plotH+16, 0.5, 0.5)
		if !math.IsNaN(v.Value) {
			dc.DrawStringAnchored(fmt.Sprintf("%.2f", v.Value), x+barW/2, y-10, 0.5, 0.5)
		}
	}

	if spec.RefLine > 0 && spec.RefLine <= maxV {
		y := margin + plotH - spec.RefLine/maxV*plotH
		dc.SetRGB(0.1, 0.6, 0.2)
		dc.SetDash(6, 4)
		dc.DrawLine(margin, y, margin+plotW, y)
		dc.Stroke()
		dc.SetDash()
	}
	return encodePNG(dc)
}

func (r *RasterRenderer) renderPie(spec ChartSpec) ([]byte, error) {
	dc := gg.NewContext(r.Width, r.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(spec.Title, float64(r.Width)/2, 30, 0.5, 0.5)

	var total float64
	for _, v := range spec.Values {
		if !math.IsNaN(v.Value) && v.Value > 0 {
			total += v.Value
		}
	}
	if total <= 0 {
		return nil, fmt.Errorf("chart %q: nothing to plot", spec.Title)
	}

	cx := float64(r.Width) * 0.38
	cy := float64(r.Height) * 0.55
	radius := math.Min(float64(r.Width), float64(r.Height)) * 0.32

	angle := -math.Pi / 2
	for i, v := range spec.Values {
		if math.IsNaN(v.Value) || v.Value <= 0 {
			continue
		}
		frac := v.Value / total
		c := barPalette[i%len(barPalette)]
		dc.SetRGB(c[0], c[1], c[2])
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, radius, angle, angle+frac*2*math.Pi)
		dc.ClosePath()
		dc.Fill()
		angle += frac * 2 * math.Pi
	}

	// legend
	lx := float64(r.Width) * 0.72
	ly := float64(r.Height) * 0.3
	for i, v := range spec.Values {
		c := barPalette[i%len(barPalette)]
		dc.SetRGB(c[0], c[1], c[2])
		dc.DrawRectangle(lx, ly, 14, 14)
		dc.Fill()
		dc.SetRGB(0.15, 0.15, 0.15)
		dc.DrawStringAnchored(fmt.Sprintf("%s (%.0f)", v.Label, v.Value), lx+22, ly+7, 0, 0.5)
		ly += 24
	}
	return encodePNG(dc)
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
