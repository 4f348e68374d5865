package game

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Small-Subways/internal/metro"
)

const (
	logPanelWidth = 320
	logLineHeight = 11
	logHighlight  = 3 // how many latest entries to highlight
)

// EventPanel renders the tail of the simulation event log on the right
// side of the window.
type EventPanel struct {
	log *metro.EventLog
}

// NewEventPanel creates a panel reading from log.
func NewEventPanel(log *metro.EventLog) *EventPanel {
	return &EventPanel{log: log}
}

// subjectLine extracts the line id from an event subject such as "L2" or
// "L2T1". Station and global subjects report false.
func subjectLine(subject string) (int, bool) {
	if !strings.HasPrefix(subject, "L") {
		return 0, false
	}
	digits := subject[1:]
	if i := strings.IndexByte(digits, 'T'); i >= 0 {
		digits = digits[:i]
	}
	id, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return id, true
}

// panelLine formats one event for the panel's narrow column.
func panelLine(e metro.Event) string {
	line := fmt.Sprintf("%5d %-5s %s %s", e.Tick, e.Subject, e.Key, e.Value)
	if maxChars := (logPanelWidth - 16) / 6; len(line) > maxChars {
		line = line[:maxChars]
	}
	return line
}

// Draw renders the panel. Entries about a line get a dot in its colour.
func (p *EventPanel) Draw(screen *ebiten.Image, panelX int, panelH int, lines []metro.LineView) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 14, G: 14, B: 18, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 60, G: 60, B: 70, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 28, G: 28, B: 36, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 60, G: 60, B: 80, A: 200}, false)

	// Newest at the bottom.
	maxVisible := (panelH - 24) / logLineHeight
	visible := p.log.Recent(maxVisible)

	y := 20
	for i, e := range visible {
		if i >= len(visible)-logHighlight {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 36, G: 36, B: 48, A: 160}, false)
		}
		dot := color.Color(color.RGBA{R: 140, G: 140, B: 140, A: 255})
		if id, ok := subjectLine(e.Subject); ok && id < len(lines) {
			dot = lines[id].Colour
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, dot, false)
		ebitenutil.DebugPrintAt(screen, panelLine(e), panelX+12, y)
		y += logLineHeight
	}
}
