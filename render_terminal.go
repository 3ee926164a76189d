package main

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
)

var (
	styleFree    = tcell.StyleDefault
	styleBlocked = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleAStar   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleTheta   = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleBoth    = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleAgent   = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleMarker  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
)

const (
	glyphFree    = ' '
	glyphBlocked = '█'
	glyphAStar   = 'o'
	glyphTheta   = '*'
	glyphBoth    = '+'
	glyphAgent   = '~'
)

// tracedCells expands a waypoint path into every cell it passes through
func tracedCells(path []Cell) map[Cell]bool {
	cells := make(map[Cell]bool)
	if len(path) == 1 {
		cells[path[0]] = true
	}
	for i := 1; i < len(path); i++ {
		for _, c := range RasterLine(path[i-1], path[i]) {
			cells[c] = true
		}
	}
	return cells
}

// DrawFrame paints a step frame onto screen: one terminal cell per grid cell
// (x = column, y = row) plus a status line under the grid. Anything outside
// the screen is clipped.
func DrawFrame(screen tcell.Screen, frame StepFrame) {
	screen.Clear()
	width, height := screen.Size()
	grid := frame.Grid

	aStar := tracedCells(frame.AStarPath)
	theta := tracedCells(frame.ThetaPath)
	agents := make(map[Cell]bool)
	for _, a := range frame.Agents {
		for c := range tracedCells(a.Result.Path) {
			agents[c] = true
		}
	}

	for r := 0; r < grid.Height() && r < height-1; r++ {
		for c := 0; c < grid.Width() && c < width; c++ {
			cell := Cell{Row: r, Col: c}
			glyph, style := glyphFree, styleFree
			switch {
			case cell == frame.Start:
				glyph, style = 'S', styleMarker
			case cell == frame.Goal:
				glyph, style = 'G', styleMarker
			case grid.IsBlocked(cell):
				glyph, style = glyphBlocked, styleBlocked
			case aStar[cell] && theta[cell]:
				glyph, style = glyphBoth, styleBoth
			case aStar[cell]:
				glyph, style = glyphAStar, styleAStar
			case theta[cell]:
				glyph, style = glyphTheta, styleTheta
			case agents[cell]:
				glyph, style = glyphAgent, styleAgent
			}
			screen.SetContent(c, r, glyph, nil, style)
		}
	}

	statusRow := grid.Height()
	if statusRow > height-1 {
		statusRow = height - 1
	}
	drawText(screen, 0, statusRow, width, styleStatus, statusLine(frame.Report))
	screen.Show()
}

func statusLine(r StepReport) string {
	describe := func(rep AlgoReport) string {
		switch {
		case rep.Error != "":
			return "aborted"
		case rep.Found:
			return fmt.Sprintf("%.2f in %s", rep.Length, rep.Elapsed)
		default:
			return "no path"
		}
	}
	return fmt.Sprintf(" step %d | A*(o) %s | Theta*(*) %s | [n]ext [q]uit ",
		r.Step, describe(r.AStar), describe(r.ThetaStar))
}

func drawText(screen tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	for _, ch := range text {
		if x >= maxWidth {
			return
		}
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

// RunTerminal shows the simulation in the terminal. Each 'n' or space
// regenerates the obstacles and replans; 'q' or Esc quits.
func RunTerminal(ctx context.Context, sim *Simulation, screen tcell.Screen) error {
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init terminal: %w", err)
	}
	defer screen.Fini()

	step := 0
	frame, err := sim.Step(ctx, step)
	if err != nil {
		return err
	}
	DrawFrame(screen, frame)

	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			screen.Sync()
			DrawFrame(screen, frame)
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return nil
			}
			if ev.Rune() != 'n' && ev.Rune() != ' ' {
				continue
			}
			if err := sim.World().Regenerate(); err != nil {
				return err
			}
			step++
			if frame, err = sim.Step(ctx, step); err != nil {
				return err
			}
			DrawFrame(screen, frame)
		}
	}
}
