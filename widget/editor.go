package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	zonewidget "github.com/A01L/ZoneWidget"
	"github.com/A01L/ZoneWidget/clock"
	"github.com/A01L/ZoneWidget/geo"
	"github.com/A01L/ZoneWidget/render"
	log "github.com/inconshreveable/log15"
)

// Editor is the drawing widget: it owns a bounded zone store, gates every
// mutation on the current mode, and re-projects onto its surface after each
// change.
type Editor struct {
	cfg     *Config
	store   *zonewidget.Store
	gate    *zonewidget.Gate
	syncer  render.Syncer
	assets  *Assets
	clk     clock.Clock
	logger  log.Logger
	surface render.Surface
}

type EditorOption func(*Editor)

// WithClock overrides the time source (tests use a fixed one).
func WithClock(clk clock.Clock) EditorOption {
	return func(e *Editor) {
		if clk != nil {
			e.clk = clk
		}
	}
}

// WithAssets overrides the process-wide asset loader.
func WithAssets(a *Assets) EditorOption {
	return func(e *Editor) {
		if a != nil {
			e.assets = a
		}
	}
}

func WithLogger(l log.Logger) EditorOption {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEditor(cfg *Config, opts ...EditorOption) *Editor {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.Normalize()
	}
	e := &Editor{
		cfg:    cfg,
		assets: SharedAssets,
		clk:    clock.NewSystem(),
		logger: log.New("module", "editor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.store = zonewidget.NewStore(cfg.Limit, e.clk)
	e.gate = zonewidget.NewGate(zonewidget.Mode(cfg.Mode))
	e.syncer = render.Syncer{Padding: cfg.FitPadding, Logger: e.logger}
	return e
}

// Mount attaches the editor to its rendering surface after the shared assets
// are available. A nil surface is the missing-container case and fails the
// mount; an asset failure is fatal to the editor.
func (e *Editor) Mount(ctx context.Context, surface render.Surface) error {
	if surface == nil {
		return zonewidget.ErrTargetNotFound
	}
	if err := e.assets.Ensure(ctx); err != nil {
		return fmt.Errorf("%w: %v", zonewidget.ErrAssetLoadFailed, err)
	}
	e.surface = surface
	e.refresh()
	if e.cfg.FitToData && e.store.Len() > 0 {
		e.fitToData()
	} else {
		surface.SetView(e.cfg.CenterLatLng(), e.cfg.Zoom)
	}
	return nil
}

// Mode returns the current mode.
func (e *Editor) Mode() zonewidget.Mode {
	return e.gate.Current()
}

// SetMode switches between edit and view and re-projects (toolbar visibility
// and hint depend on it).
func (e *Editor) SetMode(m zonewidget.Mode) {
	e.gate.Set(m)
	e.refresh()
}

// Zones returns a detached copy of the current zone set.
func (e *Editor) Zones() []zonewidget.Zone {
	return e.store.List()
}

// SetZones replaces the zone set. Input is validated all-or-nothing (every
// entry needs a geometry payload), normalized, and truncated to the limit.
func (e *Editor) SetZones(zones []zonewidget.Zone) error {
	if !e.gate.Authorize(zonewidget.OpReplace) {
		return zonewidget.ErrViewOnly
	}
	normalized, err := e.normalize(zones)
	if err != nil {
		return err
	}
	e.store.ReplaceAll(normalized)
	e.refresh()
	return nil
}

func (e *Editor) normalize(zones []zonewidget.Zone) ([]zonewidget.Zone, error) {
	now := e.clk.Now().UnixMilli()
	out := make([]zonewidget.Zone, len(zones))
	for i, z := range zones {
		if len(z.GeoJSON) == 0 {
			return nil, fmt.Errorf("%w (element %d)", zonewidget.ErrMissingGeometry, i)
		}
		c := z.Clone()
		if c.CreatedAt <= 0 {
			c.CreatedAt = now
		}
		if c.Zoom <= 0 {
			c.Zoom = zonewidget.DefaultZoom
		}
		if c.Center == nil {
			c.Center = e.deriveCenter(c.GeoJSON)
		}
		out[i] = c
	}
	// Ids are assigned after validation so a rejected batch burns none.
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = zonewidget.NewZoneID()
		}
	}
	return out, nil
}

// CreateFromDraw is the draw-completion path: a finished shape becomes a
// zone with a derived center and the configured zoom. At capacity the create
// is refused, the set is untouched, and the hint flips to limit-reached.
func (e *Editor) CreateFromDraw(geojson json.RawMessage) (zonewidget.Zone, error) {
	if !e.gate.Authorize(zonewidget.OpCreate) {
		return zonewidget.Zone{}, zonewidget.ErrViewOnly
	}
	z, err := e.store.Create(geojson, e.deriveCenter(geojson), e.cfg.Zoom)
	if err != nil {
		e.refresh()
		return zonewidget.Zone{}, err
	}
	e.refresh()
	return z, nil
}

func (e *Editor) deriveCenter(geojson json.RawMessage) *zonewidget.LatLng {
	if p, ok := geo.CenterOf(geojson); ok {
		return &zonewidget.LatLng{Lat: p.Lat, Lng: p.Lng}
	}
	c := zonewidget.FallbackCenter
	return &c
}

// DeleteZone removes a zone by id; a missing id is a no-op.
func (e *Editor) DeleteZone(id string) (bool, error) {
	if !e.gate.Authorize(zonewidget.OpDelete) {
		return false, zonewidget.ErrViewOnly
	}
	removed := e.store.Delete(id)
	if removed {
		e.refresh()
	}
	return removed, nil
}

func (e *Editor) ClearZones() error {
	if !e.gate.Authorize(zonewidget.OpClear) {
		return zonewidget.ErrViewOnly
	}
	e.store.Clear()
	e.refresh()
	return nil
}

// FocusZone navigates the main view to a zone. An unknown id is a no-op.
func (e *Editor) FocusZone(id string) {
	z, err := e.store.Find(id)
	if err != nil {
		return
	}
	if e.surface != nil {
		render.Target(z, e.cfg.FitPadding).Apply(e.surface)
	}
}

// Export returns the envelope and the dated filename it should be saved as.
func (e *Editor) Export() (zonewidget.Envelope, string) {
	meta := zonewidget.Meta{
		Limit:  e.store.Limit(),
		Center: ptr(e.cfg.CenterLatLng()),
		Zoom:   e.cfg.Zoom,
	}
	env := zonewidget.Encode(e.store.List(), meta, e.clk)
	return env, zonewidget.ExportFilename(e.clk.Now())
}

// ExportTo writes the pretty-printed envelope.
func (e *Editor) ExportTo(w io.Writer) error {
	env, _ := e.Export()
	data, err := env.MarshalIndent()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ExportFile writes the envelope into dir under its dated name and returns
// the path.
func (e *Editor) ExportFile(dir string) (string, error) {
	env, name := e.Export()
	data, err := env.MarshalIndent()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Import decodes and installs a zone file. On any decode failure the current
// set is left untouched and the error carries a human-readable reason.
func (e *Editor) Import(data []byte) error {
	if !e.gate.Authorize(zonewidget.OpImport) {
		return zonewidget.ErrViewOnly
	}
	zones, err := zonewidget.Decode(data, e.store.Limit(), zonewidget.DecodeOptions{
		DeriveCenter: deriveCenter,
		Clock:        e.clk,
	})
	if err != nil {
		e.logger.Warn("import rejected", "err", err)
		return err
	}
	e.store.ReplaceAll(zones)
	e.refresh()
	return nil
}

func (e *Editor) ImportFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	return e.Import(data)
}

func (e *Editor) refresh() {
	if e.surface == nil {
		return
	}
	e.syncer.Refresh(e.surface, render.State{
		Zones: e.store.List(),
		Mode:  e.gate.Current(),
		Limit: e.store.Limit(),
	})
}

// fitToData fits the main view to the union of every zone's bounds. Zones
// without usable bounds are skipped; if none have any, the configured center
// wins.
func (e *Editor) fitToData() {
	zones := e.store.List()
	if len(zones) == 0 || e.surface == nil {
		return
	}
	var union geo.Rect
	found := false
	for i := range zones {
		b, err := geo.BoundsOf(zones[i].GeoJSON)
		if err != nil || !b.IsValid() {
			continue
		}
		if !found {
			union = b
			found = true
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
		e.surface.FitBounds(union, e.cfg.FitPadding)
		return
	}
	e.surface.SetView(e.cfg.CenterLatLng(), e.cfg.Zoom)
}

// deriveCenter adapts the geo package to the codec's deriver contract.
func deriveCenter(geojson json.RawMessage) (zonewidget.LatLng, bool) {
	p, ok := geo.CenterOf(geojson)
	if !ok {
		return zonewidget.LatLng{}, false
	}
	return zonewidget.LatLng{Lat: p.Lat, Lng: p.Lng}, true
}

func ptr(l zonewidget.LatLng) *zonewidget.LatLng {
	return &l
}
