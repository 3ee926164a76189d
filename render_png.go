package main

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
)

var (
	colorFree    = color.RGBA{255, 255, 255, 255}
	colorBlocked = color.RGBA{40, 40, 40, 255}
	colorAStar   = color.RGBA{30, 90, 220, 255}
	colorTheta   = color.RGBA{245, 140, 20, 255}
	colorAgent   = color.RGBA{150, 60, 190, 255}
	colorStart   = color.RGBA{0, 170, 0, 255}
	colorGoal    = color.RGBA{210, 0, 0, 255}
)

const titleBarHeight = 20

// PlotComparison draws the grid with the A* path (solid blue), the Theta*
// path (dashed orange) and any agent paths onto a new context.
func PlotComparison(frame StepFrame, scale int, title string) *gg.Context {
	if scale < 1 {
		scale = 1
	}
	grid := frame.Grid
	imgWidth := grid.Width() * scale
	imgHeight := grid.Height()*scale + titleBarHeight

	dc := gg.NewContext(imgWidth, imgHeight)
	dc.SetColor(colorFree)
	dc.Clear()

	dc.SetColor(colorBlocked)
	for r := 0; r < grid.Height(); r++ {
		for c := 0; c < grid.Width(); c++ {
			if grid.IsBlocked(Cell{Row: r, Col: c}) {
				dc.DrawRectangle(float64(c*scale), float64(r*scale+titleBarHeight), float64(scale), float64(scale))
			}
		}
	}
	dc.Fill()

	center := func(c Cell) (float64, float64) {
		return float64(c.Col*scale) + float64(scale)/2, float64(c.Row*scale+titleBarHeight) + float64(scale)/2
	}
	strokePath := func(path []Cell, col color.Color, dashed bool) {
		if len(path) < 2 {
			return
		}
		dc.SetColor(col)
		dc.SetLineWidth(float64(scale) / 2)
		if dashed {
			dc.SetDash(float64(scale)*2, float64(scale))
		} else {
			dc.SetDash()
		}
		dc.MoveTo(center(path[0]))
		for _, p := range path[1:] {
			dc.LineTo(center(p))
		}
		dc.Stroke()
	}

	for _, a := range frame.Agents {
		strokePath(a.Result.Path, colorAgent, false)
	}
	strokePath(frame.AStarPath, colorAStar, false)
	strokePath(frame.ThetaPath, colorTheta, true)
	dc.SetDash()

	radius := float64(scale)
	if radius < 2 {
		radius = 2
	}
	dc.SetColor(colorStart)
	x, y := center(frame.Start)
	dc.DrawCircle(x, y, radius)
	dc.Fill()
	dc.SetColor(colorGoal)
	x, y = center(frame.Goal)
	dc.DrawCircle(x, y, radius)
	dc.Fill()

	dc.SetColor(color.Black)
	dc.DrawString(title, 4, float64(titleBarHeight)-6)
	return dc
}

// SaveComparisonPNG renders a frame into dir/step-NNN.png
func SaveComparisonPNG(dir string, frame StepFrame, scale int) (string, error) {
	title := fmt.Sprintf("Step %d: A* (blue) vs Theta* (orange)", frame.Report.Step)
	filename := filepath.Join(dir, fmt.Sprintf("step-%03d.png", frame.Report.Step))
	if err := PlotComparison(frame, scale, title).SavePNG(filename); err != nil {
		return "", fmt.Errorf("failed to save plot: %w", err)
	}
	return filename, nil
}

// WriteComparisonPNG encodes a frame's plot to w
func WriteComparisonPNG(w io.Writer, frame StepFrame, scale int) error {
	title := fmt.Sprintf("Step %d", frame.Report.Step)
	return PlotComparison(frame, scale, title).EncodePNG(w)
}

const (
	timingWidth  = 640
	timingHeight = 400
	timingMargin = 50
)

// PlotTimings charts the per-step search time of A* against Theta*
func PlotTimings(reports []StepReport) *gg.Context {
	dc := gg.NewContext(timingWidth, timingHeight)
	dc.SetColor(colorFree)
	dc.Clear()

	left, right := float64(timingMargin), float64(timingWidth-timingMargin/2)
	top, bottom := float64(timingMargin), float64(timingHeight-timingMargin)

	maxMs := 0.0
	for _, r := range reports {
		maxMs = math.Max(maxMs, math.Max(millis(r.AStar.Elapsed), millis(r.ThetaStar.Elapsed)))
	}
	if maxMs == 0 {
		maxMs = 1
	}

	x := func(i int) float64 {
		if len(reports) < 2 {
			return (left + right) / 2
		}
		return left + (right-left)*float64(i)/float64(len(reports)-1)
	}
	y := func(ms float64) float64 { return bottom - (bottom-top)*ms/maxMs }

	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.DrawLine(left, bottom, right, bottom)
	dc.DrawLine(left, bottom, left, top)
	dc.Stroke()
	for i := 0; i <= 4; i++ {
		ms := maxMs * float64(i) / 4
		dc.DrawStringAnchored(fmt.Sprintf("%.2f", ms), left-4, y(ms), 1, 0.5)
	}
	for i, r := range reports {
		dc.DrawStringAnchored(fmt.Sprint(r.Step), x(i), bottom+4, 0.5, 1)
	}
	dc.DrawStringAnchored("Step", (left+right)/2, float64(timingHeight)-8, 0.5, 0)
	dc.DrawStringAnchored("ms", left, top-8, 0.5, 0)
	dc.DrawStringAnchored("Time Comparison Between A* and Theta*", float64(timingWidth)/2, 8, 0.5, 1)

	series := func(col color.Color, elapsed func(StepReport) time.Duration) {
		dc.SetColor(col)
		dc.SetLineWidth(2)
		for i, r := range reports {
			px, py := x(i), y(millis(elapsed(r)))
			if i == 0 {
				dc.MoveTo(px, py)
			} else {
				dc.LineTo(px, py)
			}
		}
		dc.Stroke()
		for i, r := range reports {
			dc.DrawCircle(x(i), y(millis(elapsed(r))), 3)
		}
		dc.Fill()
	}
	series(colorAStar, func(r StepReport) time.Duration { return r.AStar.Elapsed })
	series(colorTheta, func(r StepReport) time.Duration { return r.ThetaStar.Elapsed })

	legend := []struct {
		label string
		col   color.Color
	}{{"A*", colorAStar}, {"Theta*", colorTheta}}
	for i, l := range legend {
		ly := top + float64(i*16)
		dc.SetColor(l.col)
		dc.DrawRectangle(right-80, ly-5, 10, 10)
		dc.Fill()
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(l.label, right-64, ly, 0, 0.5)
	}
	return dc
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// SaveTimingsPNG writes the timing chart to dir/timings.png
func SaveTimingsPNG(dir string, reports []StepReport) (string, error) {
	filename := filepath.Join(dir, "timings.png")
	if err := PlotTimings(reports).SavePNG(filename); err != nil {
		return "", fmt.Errorf("failed to save timing plot: %w", err)
	}
	return filename, nil
}
