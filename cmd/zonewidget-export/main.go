// zonewidget-export converts a zones JSON document into a dated export
// envelope, optionally normalizing ring winding and stamping derived centers
// into the feature properties.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	zonewidget "github.com/A01L/ZoneWidget"
	"github.com/A01L/ZoneWidget/geo"
	"github.com/A01L/ZoneWidget/widget"
)

var (
	infile     = flag.String("i", "zones.json", "")
	outdir     = flag.String("o", ".", "")
	configfile = flag.String("c", "", "")
	rewind     = flag.Bool("rewind", false, "")
	centers    = flag.Bool("centers", false, "")
)

var usage = `
Usage: zonewidget-export [options...]

Options:
  -i        Input zones file, export envelope or bare array. (default: "zones.json")
  -o        Output directory for the dated envelope. (default: ".")
  -c        Widget config file; its limit and view options go into the envelope meta.
  -rewind   Normalize polygon ring winding. (default: false)
  -centers  Stamp derived centers into feature properties. (default: false)

Example:

  zonewidget-export -i drawn.json -o exports -c widget.yml -centers
`

func main() {
	log.SetFlags(log.Lshortfile | log.LstdFlags)

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}
	flag.Parse()

	cfg := widget.DefaultConfig()
	if *configfile != "" {
		loaded, err := widget.LoadConfig(*configfile)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	data, err := os.ReadFile(*infile)
	if err != nil {
		log.Fatal(err)
	}
	zones, err := zonewidget.Decode(data, cfg.Limit, zonewidget.DecodeOptions{
		DeriveCenter: func(raw json.RawMessage) (zonewidget.LatLng, bool) {
			p, ok := geo.CenterOf(raw)
			if !ok {
				return zonewidget.LatLng{}, false
			}
			return zonewidget.LatLng{Lat: p.Lat, Lng: p.Lng}, true
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	for i := range zones {
		if *rewind {
			out, err := geo.RewindFeature(zones[i].GeoJSON)
			if err != nil {
				log.Printf("zone %s: rewind skipped: %v", zones[i].ID, err)
			} else {
				zones[i].GeoJSON = out
			}
		}
		if *centers {
			if p, ok := geo.CenterOf(zones[i].GeoJSON); ok {
				out, err := geo.StampCenter(zones[i].GeoJSON, p)
				if err != nil {
					log.Printf("zone %s: center stamp skipped: %v", zones[i].ID, err)
				} else {
					zones[i].GeoJSON = out
				}
			}
		}
	}

	center := cfg.CenterLatLng()
	env := zonewidget.Encode(zones, zonewidget.Meta{
		Limit:  cfg.Limit,
		Center: &center,
		Zoom:   cfg.Zoom,
	}, nil)
	out, err := env.MarshalIndent()
	if err != nil {
		log.Fatal(err)
	}

	path := filepath.Join(*outdir, zonewidget.ExportFilename(time.Now()))
	if err := os.WriteFile(path, out, 0644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d zones to %s", len(zones), path)
}
