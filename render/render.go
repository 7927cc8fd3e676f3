// Package render projects the zone set onto a rendering surface. The
// projection is one-way: a refresh reads the store and mode, never mutates
// them, and always redraws everything rather than diffing.
package render

import (
	zonewidget "github.com/A01L/ZoneWidget"
	"github.com/A01L/ZoneWidget/geo"
	log "github.com/inconshreveable/log15"
)

// Hint is the status message shown next to the drawing tools.
type Hint int

const (
	HintEditAvailable Hint = iota
	HintLimitReached
	HintViewMode
)

func (h Hint) String() string {
	switch h {
	case HintLimitReached:
		return "Zone limit reached. Delete a zone to draw another."
	case HintViewMode:
		return "View mode: zones are read-only."
	default:
		return "Use the drawing tools to add a zone."
	}
}

// Preview describes one read-only preview surface: a zone plus the view
// target it should be fitted to, pan/zoom-locked from the main map.
type Preview struct {
	Zone   zonewidget.Zone
	Target ViewTarget
}

// Surface is what the widgets consume from the rendering collaborator. A
// surface owns the main map and the preview grid; it draws what it is told
// and holds no zone state of its own.
type Surface interface {
	ClearZones()
	DrawZone(z zonewidget.Zone)
	SetPreviews(previews []Preview)
	FitBounds(b geo.Rect, padding int)
	SetView(center zonewidget.LatLng, zoom int)
	SetDrawing(enabled bool)
	SetHint(h Hint)
}

// State is the snapshot a refresh projects. Limit <= 0 means unbounded
// (the viewer never caps its display set).
type State struct {
	Zones []zonewidget.Zone
	Mode  zonewidget.Mode
	Limit int
}

// HintFor picks the status message: limit-reached wins in edit mode,
// otherwise the mode decides.
func HintFor(mode zonewidget.Mode, size, limit int) Hint {
	if mode == zonewidget.ModeView {
		return HintViewMode
	}
	if limit > 0 && size >= limit {
		return HintLimitReached
	}
	return HintEditAvailable
}

// Syncer performs the full-refresh projection.
type Syncer struct {
	// Padding in pixels applied when fitting previews and focus targets.
	Padding int
	Logger  log.Logger
}

const defaultPadding = 12

func (s *Syncer) padding() int {
	if s.Padding > 0 {
		return s.Padding
	}
	return defaultPadding
}

// Refresh clears and redraws the main zone layer, rebuilds the preview grid,
// and recomputes toolbar visibility and the hint. It is called after every
// store mutation and every mode change.
func (s *Syncer) Refresh(surface Surface, st State) {
	surface.ClearZones()
	for i := range st.Zones {
		surface.DrawZone(st.Zones[i])
	}

	previews := make([]Preview, len(st.Zones))
	for i := range st.Zones {
		previews[i] = Preview{
			Zone:   st.Zones[i],
			Target: Target(st.Zones[i], s.padding()),
		}
	}
	surface.SetPreviews(previews)

	drawing := st.Mode == zonewidget.ModeEdit &&
		(st.Limit <= 0 || len(st.Zones) < st.Limit)
	surface.SetDrawing(drawing)
	surface.SetHint(HintFor(st.Mode, len(st.Zones), st.Limit))

	if s.Logger != nil {
		s.Logger.Debug("refreshed surface", "zones", len(st.Zones),
			"mode", st.Mode, "drawing", drawing)
	}
}
