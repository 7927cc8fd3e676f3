// Package widget assembles the editor and viewer widgets from the store,
// mode gate, codec, and render projection.
package widget

import (
	"fmt"

	zonewidget "github.com/A01L/ZoneWidget"
	"github.com/jinzhu/configor"
)

// Style is the stroke/fill applied to every drawn zone.
type Style struct {
	Color       string  `yaml:"color" json:"color" default:"'#1d6fb8'"`
	Weight      int     `yaml:"weight" json:"weight" default:"2"`
	FillColor   string  `yaml:"fill_color" json:"fillColor" default:"'#1d6fb8'"`
	FillOpacity float64 `yaml:"fill_opacity" json:"fillOpacity" default:"0.25"`
}

// Config enumerates every option the widgets recognize, with its default.
// Hosts construct one directly or load it from a file; either way Normalize
// runs before use.
type Config struct {
	// Limit caps the zone count.
	Limit int `yaml:"limit" json:"limit" default:"4"`
	// Center is the initial [lat, lng] view center.
	Center []float64 `yaml:"center" json:"center"`
	// Zoom is the initial zoom level.
	Zoom int `yaml:"zoom" json:"zoom" default:"13"`
	// Mode is the initial mode, "edit" or "view".
	Mode string `yaml:"mode" json:"mode" default:"edit"`
	// Height is the main surface height in pixels.
	Height int `yaml:"height" json:"height" default:"520"`
	// FitToData pans/zooms the main view to the data on load.
	FitToData bool `yaml:"fit_to_data" json:"fitToData" default:"true"`
	// FitPadding is the pixel padding used for bounds fits.
	FitPadding int `yaml:"fit_padding" json:"fitPadding" default:"12"`

	TileURL     string `yaml:"tile_url" json:"tileUrl" default:"https://tile.openstreetmap.org/{z}/{x}/{y}.png"`
	TileMaxZoom int    `yaml:"tile_max_zoom" json:"tileMaxZoom" default:"19"`
	Attribution string `yaml:"attribution" json:"attribution" default:"'&copy; OpenStreetMap contributors'"`

	Style Style `yaml:"style" json:"style"`
}

// DefaultConfig returns a config with every default applied.
func DefaultConfig() *Config {
	c := new(Config)
	// Load with no files only applies defaults and environment overrides.
	if err := configor.New(&configor.Config{ENVPrefix: "-"}).Load(c); err != nil {
		panic(fmt.Sprintf("widget defaults: %v", err))
	}
	c.Normalize()
	return c
}

// LoadConfig reads a config file (YAML, JSON, or TOML per extension) on top
// of the defaults.
func LoadConfig(path string) (*Config, error) {
	c := new(Config)
	if err := configor.New(&configor.Config{ENVPrefix: "-"}).Load(c, path); err != nil {
		return nil, fmt.Errorf("load widget config: %w", err)
	}
	c.Normalize()
	return c, nil
}

// Normalize clamps and defaults every field so downstream code never
// re-checks option validity.
func (c *Config) Normalize() {
	if c.Limit <= 0 {
		c.Limit = zonewidget.DefaultLimit
	}
	if len(c.Center) != 2 {
		c.Center = []float64{zonewidget.FallbackCenter.Lat, zonewidget.FallbackCenter.Lng}
	}
	if c.TileMaxZoom <= 0 {
		c.TileMaxZoom = 19
	}
	if c.Zoom <= 0 {
		c.Zoom = 13
	}
	if c.Zoom > c.TileMaxZoom {
		c.Zoom = c.TileMaxZoom
	}
	c.Mode = string(zonewidget.ParseMode(c.Mode))
	if c.Height < 240 {
		c.Height = 240
	}
	if c.FitPadding < 0 {
		c.FitPadding = 12
	}
	if c.Style.Weight <= 0 {
		c.Style.Weight = 2
	}
	if c.Style.FillOpacity < 0 || c.Style.FillOpacity > 1 {
		c.Style.FillOpacity = 0.25
	}
}

// CenterLatLng returns the normalized initial center.
func (c *Config) CenterLatLng() zonewidget.LatLng {
	return zonewidget.LatLng{Lat: c.Center[0], Lng: c.Center[1]}
}
