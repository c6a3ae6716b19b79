// Package chart draws a single true-vs-predicted line chart with gonum/plot.
package chart

import (
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	"math"

	"github.com/Noofbiz/seqvis"
	"github.com/Noofbiz/seqvis/fonts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Sizes in pixels. They are converted to points with the renderer DPI so a
// tile looks the same at every resolution setting.
const (
	TitleSize  = 20
	TickSize   = 15
	LegendSize = 15
	SwatchSize = 20
	Margin     = 5
)

// DefaultDPI is used when a Renderer has no DPI set.
const DefaultDPI = 96

var (
	TrueColor    = color.NRGBA{B: 255, A: 230}
	PredColor    = color.NRGBA{R: 255, A: 230}
	LegendFill   = color.NRGBA{R: 255, G: 255, B: 255, A: 204}
	LegendBorder = color.Black
)

const lineWidthPixels = 1

// AxisRange returns the y-axis limits for a pair of series: the minimum over
// both and 1.1 times the maximum over both.
func AxisRange(truth, pred []float64) (ymin, ymax float64, err error) {
	if len(truth) != len(pred) {
		return 0, 0, fmt.Errorf("%w: series lengths differ: true %d, pred %d",
			seqvis.ErrInvalidInput, len(truth), len(pred))
	}
	if len(truth) == 0 {
		return 0, 0, fmt.Errorf("%w: empty series", seqvis.ErrInvalidInput)
	}
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for _, s := range [][]float64{truth, pred} {
		for i, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, 0, fmt.Errorf("%w: non-finite value %v at step %d", seqvis.ErrInvalidInput, v, i)
			}
			ymin = math.Min(ymin, v)
			ymax = math.Max(ymax, v)
		}
	}
	return ymin, 1.1 * ymax, nil
}

// Chart is a built plot plus the legend drawn over its data area.
type Chart struct {
	Plot   *plot.Plot
	Legend plot.Legend
}

// Renderer draws charts in one face at one resolution. The zero value draws
// with the generic sans-serif face at DefaultDPI.
type Renderer struct {
	Face fonts.Face
	DPI  int
}

func (r Renderer) dpi() int {
	if r.DPI <= 0 {
		return DefaultDPI
	}
	return r.DPI
}

func (r Renderer) face() fonts.Face {
	if r.Face.Handler == nil {
		return fonts.NewRegistry().Face(fonts.SansSerif)
	}
	return r.Face
}

// px converts a length in pixels to points.
func (r Renderer) px(n float64) vg.Length {
	return vg.Length(n) * vg.Inch / vg.Length(r.dpi())
}

func series(ys []float64) plotter.XYs {
	xys := make(plotter.XYs, len(ys))
	for i, y := range ys {
		xys[i] = plotter.XY{X: float64(i), Y: y}
	}
	return xys
}

// Build lays out the chart for one channel: x over [0, T], y over AxisRange,
// a blue "True" line and a red "Pred" line, no grid.
func (r Renderer) Build(title string, truth, pred []float64) (*Chart, error) {
	ymin, ymax, err := AxisRange(truth, pred)
	if err != nil {
		return nil, err
	}
	face := r.face()

	p := plot.New()
	p.TextHandler = face.Handler
	p.Title.Text = title
	p.Title.Padding = r.px(Margin)
	p.Title.TextStyle.Font = face.Style(r.px(TitleSize), color.Black).Font
	p.Title.TextStyle.Handler = face.Handler
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Padding = 0
		ax.Tick.Label.Font = face.Style(r.px(TickSize), color.Black).Font
		ax.Tick.Label.Handler = face.Handler
		ax.Label.TextStyle.Handler = face.Handler
	}

	lineWidth := r.px(lineWidthPixels)
	truthLine, err := plotter.NewLine(series(truth))
	if err != nil {
		return nil, fmt.Errorf("%w: true line: %w", seqvis.ErrInvalidInput, err)
	}
	truthLine.Color = TrueColor
	truthLine.Width = lineWidth

	predLine, err := plotter.NewLine(series(pred))
	if err != nil {
		return nil, fmt.Errorf("%w: pred line: %w", seqvis.ErrInvalidInput, err)
	}
	predLine.Color = PredColor
	predLine.Width = lineWidth

	p.Add(truthLine, predLine)

	// Limits go in after Add, which widens them to the data range.
	p.X.Min = 0
	p.X.Max = float64(len(truth))
	p.Y.Min = ymin
	p.Y.Max = ymax

	leg := plot.NewLegend()
	leg.TextStyle = face.Style(r.px(LegendSize), color.Black)
	leg.ThumbnailWidth = r.px(SwatchSize)
	leg.Top = true
	leg.Add("True", truthLine)
	leg.Add("Pred", predLine)

	return &Chart{Plot: p, Legend: leg}, nil
}

// Draw paints the chart onto c, inset by the margin.
func (ch *Chart) Draw(c draw.Canvas, margin vg.Length) {
	c = draw.Crop(c, margin, -margin, margin, -margin)
	ch.Plot.Draw(c)
	drawLegend(ch.Plot.DataCanvas(c), ch.Legend, margin)
}

// drawLegend places the legend in the top right corner of the data area on
// a translucent white box with a black border.
func drawLegend(dc draw.Canvas, leg plot.Legend, pad vg.Length) {
	size := leg.Rectangle(dc).Size()
	h := size.Y + leg.TextStyle.FontExtents().Descent

	frame := vg.Rectangle{
		Min: vg.Point{X: dc.Max.X - pad - size.X - 2*pad, Y: dc.Max.Y - pad - h - 2*pad},
		Max: vg.Point{X: dc.Max.X - pad, Y: dc.Max.Y - pad},
	}
	dc.SetColor(LegendFill)
	dc.Fill(frame.Path())
	dc.StrokeLines(draw.LineStyle{Color: LegendBorder, Width: vg.Points(0.75)}, []vg.Point{
		frame.Min,
		{X: frame.Max.X, Y: frame.Min.Y},
		frame.Max,
		{X: frame.Min.X, Y: frame.Max.Y},
		frame.Min,
	})

	inner := draw.Canvas{
		Canvas: dc.Canvas,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: frame.Min.X + pad, Y: frame.Min.Y + pad},
			Max: vg.Point{X: frame.Max.X - pad, Y: frame.Max.Y - pad},
		},
	}
	leg.Draw(inner)
}

// Render draws one chart filling dst's bounds. Faults raised by the drawing
// backend, panics included, are returned as ErrRender.
func (r Renderer) Render(dst stddraw.Image, title string, truth, pred []float64) (err error) {
	bounds := dst.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return fmt.Errorf("%w: empty target %v", seqvis.ErrInvalidInput, bounds)
	}
	ch, err := r.Build(title, truth, pred)
	if err != nil {
		return err
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: %v", seqvis.ErrRender, title, rec)
		}
	}()

	dpi := r.dpi()
	w := vg.Length(bounds.Dx()) * vg.Inch / vg.Length(dpi)
	h := vg.Length(bounds.Dy()) * vg.Inch / vg.Length(dpi)
	cnv := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	ch.Draw(draw.New(cnv), r.px(Margin))

	stddraw.Draw(dst, bounds, cnv.Image(), image.Point{}, stddraw.Src)
	return nil
}
