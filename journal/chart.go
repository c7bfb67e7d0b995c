package journal

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rustyeddy/tradejournal/pnl"
)

var ErrEmptyCurve = errors.New("equity curve is empty")

// SaveEquityChart plots cumulative P&L against trade number, with the
// running peak dashed behind it. The format follows the extension of path.
func SaveEquityChart(path string, curve []pnl.EquityPoint) error {
	if len(curve) == 0 {
		return ErrEmptyCurve
	}

	// start both lines from zero before the first trade
	equity := make(plotter.XYs, len(curve)+1)
	peak := make(plotter.XYs, len(curve)+1)
	for i, p := range curve {
		equity[i+1].X = float64(p.N)
		equity[i+1].Y = p.Cumulative
		peak[i+1].X = float64(p.N)
		peak[i+1].Y = p.Peak
	}
	peak[0].Y = curve[0].Peak

	p := plot.New()
	p.Title.Text = "Equity Curve"
	p.X.Label.Text = "Trade #"
	p.Y.Label.Text = "Cumulative P&L"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(equity)
	if err != nil {
		return fmt.Errorf("equity line: %w", err)
	}
	line.Color = color.RGBA{R: 0, G: 128, B: 255, A: 255}
	line.Width = vg.Points(2)

	peakLine, err := plotter.NewLine(peak)
	if err != nil {
		return fmt.Errorf("peak line: %w", err)
	}
	peakLine.Color = color.RGBA{R: 255, G: 0, B: 0, A: 100}
	peakLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}

	p.Add(peakLine, line)
	p.Legend.Add("equity", line)
	p.Legend.Add("peak", peakLine)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	return nil
}
