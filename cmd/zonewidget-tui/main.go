// zonewidget-tui displays a zones URL or file in the terminal. Number keys
// focus a zone, r resets the view, q quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/A01L/ZoneWidget/render"
	"github.com/A01L/ZoneWidget/render/term"
	"github.com/A01L/ZoneWidget/widget"
	"github.com/gdamore/tcell/v2"
)

var (
	dataURL    = flag.String("url", "", "")
	infile     = flag.String("i", "", "")
	configfile = flag.String("c", "", "")
)

var usage = `
Usage: zonewidget-tui [options...]

Options:
  -url  Zones URL to fetch (export envelope or bare array).
  -i    Zones file to display instead of a URL.
  -c    Widget config file.

One of -url or -i is required.
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}
	flag.Parse()
	if *dataURL == "" && *infile == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := widget.DefaultConfig()
	if *configfile != "" {
		loaded, err := widget.LoadConfig(*configfile)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	surface, err := term.New()
	if err != nil {
		log.Fatal(err)
	}
	defer surface.Fini()

	viewer := widget.NewViewer(cfg)
	ctx := context.Background()
	if err := viewer.Mount(ctx, surface); err != nil {
		surface.Fini()
		log.Fatal(err)
	}
	if *dataURL != "" {
		err = viewer.Load(ctx, *dataURL)
	} else {
		var data []byte
		data, err = os.ReadFile(*infile)
		if err == nil {
			err = viewer.Replace(data)
		}
	}
	if err != nil {
		surface.Fini()
		log.Fatal(err)
	}
	surface.Render()

	zones := viewer.Zones()
	for {
		ev := surface.Screen().PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			surface.Screen().Sync()
			surface.Render()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Rune() == 'q':
				return
			case ev.Rune() == 'r':
				surface.SetView(cfg.CenterLatLng(), cfg.Zoom)
			case ev.Rune() >= '1' && ev.Rune() <= '9':
				i := int(ev.Rune() - '1')
				if i < len(zones) {
					render.Target(zones[i], cfg.FitPadding).Apply(surface)
				}
			}
		}
	}
}
