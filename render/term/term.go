// Package term renders the zone set in a terminal. It implements the render
// surface contract the same way the browser surface does: it draws whatever
// the last refresh projected and holds no zone state beyond that.
package term

import (
	"fmt"

	zonewidget "github.com/A01L/ZoneWidget"
	"github.com/A01L/ZoneWidget/geo"
	"github.com/A01L/ZoneWidget/render"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	previewRows = 6
	statusRows  = 1
)

// Surface draws the main map box, a preview strip, and a status bar.
type Surface struct {
	screen   tcell.Screen
	zones    []zonewidget.Zone
	previews []render.Preview
	drawing  bool
	hint     render.Hint

	// view is either a fitted rectangle or a center/zoom pair,
	// whichever navigation request came last.
	fitted *geo.Rect
	center zonewidget.LatLng
	zoom   int

	printer *message.Printer
}

// New initializes a real terminal screen.
func New() (*Surface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return NewWithScreen(screen), nil
}

// NewWithScreen wraps an initialized screen (tests pass a simulation screen).
func NewWithScreen(screen tcell.Screen) *Surface {
	return &Surface{
		screen:  screen,
		center:  zonewidget.FallbackCenter,
		zoom:    zonewidget.DefaultZoom,
		printer: message.NewPrinter(language.English),
	}
}

func (s *Surface) Screen() tcell.Screen {
	return s.screen
}

// Fini releases the terminal.
func (s *Surface) Fini() {
	s.screen.Fini()
}

func (s *Surface) ClearZones() {
	s.zones = nil
}

func (s *Surface) DrawZone(z zonewidget.Zone) {
	s.zones = append(s.zones, z)
}

func (s *Surface) SetPreviews(previews []render.Preview) {
	s.previews = previews
}

func (s *Surface) FitBounds(b geo.Rect, padding int) {
	s.fitted = &b
	s.Render()
}

func (s *Surface) SetView(center zonewidget.LatLng, zoom int) {
	s.fitted = nil
	s.center = center
	s.zoom = zoom
	s.Render()
}

func (s *Surface) SetDrawing(enabled bool) {
	s.drawing = enabled
}

func (s *Surface) SetHint(h render.Hint) {
	s.hint = h
}

// viewBounds picks the rectangle the main box projects: the fitted view if
// one was requested, else the union of every zone's bounds, else a small box
// around the view center.
func (s *Surface) viewBounds() geo.Rect {
	if s.fitted != nil {
		return *s.fitted
	}
	var union geo.Rect
	found := false
	for i := range s.zones {
		b, err := geo.BoundsOf(s.zones[i].GeoJSON)
		if err != nil || !b.IsValid() {
			continue
		}
		if !found {
			union, found = b, true
			continue
		}
		if b.South < union.South {
			union.South = b.South
		}
		if b.West < union.West {
			union.West = b.West
		}
		if b.North > union.North {
			union.North = b.North
		}
		if b.East > union.East {
			union.East = b.East
		}
	}
	if found {
		return union
	}
	const span = 0.02
	return geo.Rect{
		South: s.center.Lat - span, North: s.center.Lat + span,
		West: s.center.Lng - span, East: s.center.Lng + span,
	}
}

// Render redraws the whole frame: map box first, preview strip, status bar
// last.
func (s *Surface) Render() {
	s.screen.Clear()
	width, height := s.screen.Size()
	mapHeight := height - previewRows - statusRows
	if mapHeight < 3 || width < 10 {
		s.screen.Show()
		return
	}

	style := tcell.StyleDefault
	s.drawBox(0, 0, width-1, mapHeight-1, style)

	view := s.viewBounds()
	zoneStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	for i := range s.zones {
		b, err := geo.BoundsOf(s.zones[i].GeoJSON)
		if err != nil || !b.IsValid() {
			continue
		}
		s.drawZoneRect(b, view, width, mapHeight, i+1, zoneStyle)
	}

	s.drawPreviews(0, mapHeight, width, style)
	s.drawStatusBar(height-1, width)
	s.screen.Show()
}

// project maps a coordinate into the map box. North is up, so rows grow as
// latitude falls.
func project(b geo.Rect, lat, lng float64, width, height int) (int, int) {
	x := int(float64(width-3) * (lng - b.West) / (b.East - b.West))
	y := int(float64(height-3) * (b.North - lat) / (b.North - b.South))
	return x + 1, y + 1
}

func (s *Surface) drawZoneRect(b, view geo.Rect, width, mapHeight, n int, style tcell.Style) {
	if !view.IsValid() {
		return
	}
	x1, y1 := project(view, b.North, b.West, width, mapHeight)
	x2, y2 := project(view, b.South, b.East, width, mapHeight)
	if x2 <= x1 {
		x2 = x1 + 1
	}
	if y2 <= y1 {
		y2 = y1 + 1
	}
	s.drawBox(x1, y1, x2, y2, style)
	s.setString(x1+1, y1, fmt.Sprintf("%d", n), style)
}

func (s *Surface) drawPreviews(x, y, width int, style tcell.Style) {
	cellWidth := 20
	for i := range s.previews {
		px := x + i*cellWidth
		if px+cellWidth >= width {
			break
		}
		s.drawBox(px, y, px+cellWidth-2, y+previewRows-1, style)
		z := s.previews[i].Zone
		s.setString(px+2, y+1, fmt.Sprintf("zone %d", i+1), style)
		s.setString(px+2, y+2, shortID(z.ID), style)
		if area, ok := geo.AreaOf(z.GeoJSON); ok {
			s.setString(px+2, y+3, s.printer.Sprintf("%.2f km2", area/1e6), style)
		}
	}
}

func (s *Surface) drawStatusBar(y, width int) {
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < width; x++ {
		s.screen.SetContent(x, y, ' ', nil, style)
	}
	status := s.hint.String()
	if s.drawing {
		status += "  [drawing enabled]"
	}
	status += s.printer.Sprintf("  %d zones", len(s.zones))
	s.setString(1, y, status, style)
}

func (s *Surface) drawBox(x1, y1, x2, y2 int, style tcell.Style) {
	for x := x1; x <= x2; x++ {
		s.screen.SetContent(x, y1, tcell.RuneHLine, nil, style)
		s.screen.SetContent(x, y2, tcell.RuneHLine, nil, style)
	}
	for y := y1; y <= y2; y++ {
		s.screen.SetContent(x1, y, tcell.RuneVLine, nil, style)
		s.screen.SetContent(x2, y, tcell.RuneVLine, nil, style)
	}
	s.screen.SetContent(x1, y1, tcell.RuneULCorner, nil, style)
	s.screen.SetContent(x2, y1, tcell.RuneURCorner, nil, style)
	s.screen.SetContent(x1, y2, tcell.RuneLLCorner, nil, style)
	s.screen.SetContent(x2, y2, tcell.RuneLRCorner, nil, style)
}

func (s *Surface) setString(x, y int, str string, style tcell.Style) {
	for i, r := range str {
		s.screen.SetContent(x+i, y, r, nil, style)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
