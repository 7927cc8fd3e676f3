package widget

import (
	"context"
	"fmt"

	zonewidget "github.com/A01L/ZoneWidget"
	"github.com/A01L/ZoneWidget/client"
	"github.com/A01L/ZoneWidget/clock"
	"github.com/A01L/ZoneWidget/render"
	log "github.com/inconshreveable/log15"
)

// Viewer is the read-only widget: it displays whatever data it is handed or
// fetches, with no limit and no mutation surface.
type Viewer struct {
	cfg     *Config
	zones   []zonewidget.Zone
	syncer  render.Syncer
	assets  *Assets
	clk     clock.Clock
	logger  log.Logger
	surface render.Surface
}

type ViewerOption func(*Viewer)

func ViewerClock(clk clock.Clock) ViewerOption {
	return func(v *Viewer) {
		if clk != nil {
			v.clk = clk
		}
	}
}

func ViewerAssets(a *Assets) ViewerOption {
	return func(v *Viewer) {
		if a != nil {
			v.assets = a
		}
	}
}

func ViewerLogger(l log.Logger) ViewerOption {
	return func(v *Viewer) {
		if l != nil {
			v.logger = l
		}
	}
}

func NewViewer(cfg *Config, opts ...ViewerOption) *Viewer {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.Normalize()
	}
	v := &Viewer{
		cfg:    cfg,
		assets: SharedAssets,
		clk:    clock.NewSystem(),
		logger: log.New("module", "viewer"),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.syncer = render.Syncer{Padding: cfg.FitPadding, Logger: v.logger}
	return v
}

// Mount attaches the viewer to its surface. Asset failures are fatal here
// too; the surface cannot draw without the library.
func (v *Viewer) Mount(ctx context.Context, surface render.Surface) error {
	if surface == nil {
		return zonewidget.ErrTargetNotFound
	}
	if err := v.assets.Ensure(ctx); err != nil {
		return fmt.Errorf("%w: %v", zonewidget.ErrAssetLoadFailed, err)
	}
	v.surface = surface
	v.refresh()
	return nil
}

// Replace installs new display data: an export envelope or a bare zone
// array, decoded with no limit. On failure the current display is untouched.
func (v *Viewer) Replace(data []byte) error {
	zones, err := zonewidget.Decode(data, 0, zonewidget.DecodeOptions{
		DeriveCenter: deriveCenter,
		Clock:        v.clk,
	})
	if err != nil {
		v.logger.Warn("replace rejected", "err", err)
		return err
	}
	v.zones = zones
	v.refresh()
	return nil
}

// Load fetches a zones URL and installs the result. The error of a failed
// fetch carries the HTTP status.
func (v *Viewer) Load(ctx context.Context, url string) error {
	zones, err := client.FetchURL(ctx, url)
	if err != nil {
		return err
	}
	v.zones = zones
	v.refresh()
	return nil
}

// Zones returns a detached copy of the displayed data.
func (v *Viewer) Zones() []zonewidget.Zone {
	out := make([]zonewidget.Zone, len(v.zones))
	for i := range v.zones {
		out[i] = v.zones[i].Clone()
	}
	return out
}

// Teardown releases the surface and drops all display state. The shared
// asset load stays; it is process-wide.
func (v *Viewer) Teardown() {
	if v.surface != nil {
		v.surface.ClearZones()
		v.surface.SetPreviews(nil)
	}
	v.surface = nil
	v.zones = nil
}

func (v *Viewer) refresh() {
	if v.surface == nil {
		return
	}
	v.syncer.Refresh(v.surface, render.State{
		Zones: v.Zones(),
		Mode:  zonewidget.ModeView,
		Limit: 0,
	})
}
