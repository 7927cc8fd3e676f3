package render

import (
	zonewidget "github.com/A01L/ZoneWidget"
	"github.com/A01L/ZoneWidget/geo"
)

// ViewTarget is a navigation request: either a bounds fit with padding or a
// center/zoom view. Exactly one of the two applies, reported by Fit.
type ViewTarget struct {
	Fit     bool
	Bounds  geo.Rect
	Padding int

	Center zonewidget.LatLng
	Zoom   int
}

// Target computes the view target for a zone. The fallback chain is total:
// geometry bounds first, the stored center/zoom second, the fixed fallback
// coordinate last. Bounds failures are swallowed here so one malformed zone
// never blocks navigation.
func Target(z zonewidget.Zone, padding int) ViewTarget {
	if b, err := geo.BoundsOf(z.GeoJSON); err == nil && b.IsValid() {
		return ViewTarget{Fit: true, Bounds: b, Padding: padding}
	}
	center := zonewidget.FallbackCenter
	if z.Center != nil {
		center = *z.Center
	}
	zoom := z.Zoom
	if zoom <= 0 {
		zoom = zonewidget.DefaultZoom
	}
	return ViewTarget{Center: center, Zoom: zoom}
}

// Apply requests the navigation from the surface.
func (t ViewTarget) Apply(s Surface) {
	if t.Fit {
		s.FitBounds(t.Bounds, t.Padding)
		return
	}
	s.SetView(t.Center, t.Zoom)
}
