// Package server hosts the zone widgets: it serves a host page that embeds
// the mapping library and the zones endpoint viewers poll.
package server

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	zonewidget "github.com/A01L/ZoneWidget"
	"github.com/A01L/ZoneWidget/clock"
	"github.com/A01L/ZoneWidget/widget"
	"github.com/kevinburke/handlers"
	"github.com/kevinburke/rest"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var Logger *slog.Logger

func init() {
	Logger = handlers.Logger
	hostPageTpl = template.Must(
		template.New("hostpage").Option("missingkey=error").Parse(hostPageHTML),
	)
}

var hostPageTpl *template.Template

// hostPageData feeds the host page template.
type hostPageData struct {
	Title       string
	Status      string
	Height      int
	TileURL     string
	TileMaxZoom int
	Attribution string
	Config      template.JS
	ZonesURL    string
}

// Render a template, or a server error.
func render(w http.ResponseWriter, r *http.Request, tpl *template.Template, name string, data interface{}) {
	buf := new(bytes.Buffer)
	if err := tpl.ExecuteTemplate(buf, name, data); err != nil {
		rest.ServerError(w, r, err)
		return
	}
	w.Write(buf.Bytes())
}

// Server serves one zone set to any number of viewer instances.
type Server struct {
	cfg   *widget.Config
	zones []zonewidget.Zone
	clk   clock.Clock
}

func New(cfg *widget.Config, zones []zonewidget.Zone, clk clock.Clock) *Server {
	if cfg == nil {
		cfg = widget.DefaultConfig()
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Server{cfg: cfg, zones: zones, clk: clk}
}

// NewServeMux returns a HTTP handler that covers all routes known to the
// server.
func (s *Server) NewServeMux() http.Handler {
	p := message.NewPrinter(language.English)

	r := new(handlers.Regexp)
	r.HandleFunc(regexp.MustCompile(`^/zones.json$`), []string{"GET"}, func(w http.ResponseWriter, r *http.Request) {
		env := zonewidget.Encode(s.zones, zonewidget.Meta{
			Limit:  s.cfg.Limit,
			Center: &zonewidget.LatLng{Lat: s.cfg.Center[0], Lng: s.cfg.Center[1]},
			Zoom:   s.cfg.Zoom,
		}, s.clk)
		data, err := env.MarshalIndent()
		if err != nil {
			rest.ServerError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(data)
	})
	r.HandleFunc(regexp.MustCompile(`^/$`), []string{"GET"}, func(w http.ResponseWriter, r *http.Request) {
		cfgJSON, err := json.Marshal(s.cfg)
		if err != nil {
			rest.ServerError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		render(w, r, hostPageTpl, "hostpage", &hostPageData{
			Title:       "Zones",
			Status:      p.Sprintf("Showing %d zones (limit %d)", len(s.zones), s.cfg.Limit),
			Height:      s.cfg.Height,
			TileURL:     s.cfg.TileURL,
			TileMaxZoom: s.cfg.TileMaxZoom,
			Attribution: s.cfg.Attribution,
			Config:      template.JS(cfgJSON),
			ZonesURL:    "/zones.json",
		})
	})
	// Routes not matched get the default 404 page. Call
	// rest.RegisterHandler(404, http.HandlerFunc) to provide your own.
	return r
}

// Handler wraps the mux in the standard middleware chain.
func (s *Server) Handler() http.Handler {
	mux := s.NewServeMux()
	mux = handlers.UUID(mux)                               // add UUID header
	mux = handlers.Server(mux, "zonewidget-server/1.0")    // add Server header
	mux = handlers.Log(mux)                                // log requests/responses
	mux = handlers.Duration(mux)                           // add Duration header
	return mux
}

// FileConfig represents the data in a server config file.
type FileConfig struct {
	// Port to listen on. If unspecified, defaults to 7065.
	Port *int `yaml:"port"`

	// ZonesFile is a zones JSON document (export envelope or bare array)
	// loaded at startup and served to viewers.
	ZonesFile string `yaml:"zones_file"`

	// Widget holds the widget options injected into the host page.
	Widget widget.Config `yaml:"widget"`
}

// DefaultPort is the listening port if no other port is specified.
var DefaultPort = 7065

// ReadTimeout bounds slow clients; the payloads here are small.
const ReadTimeout = 30 * time.Second
