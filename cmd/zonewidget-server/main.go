// zonewidget-server loads configuration from a file and serves the widget
// host page plus the zones endpoint viewers fetch.
package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	zonewidget "github.com/A01L/ZoneWidget"
	"github.com/A01L/ZoneWidget/clock"
	"github.com/A01L/ZoneWidget/server"
	"github.com/kevinburke/handlers"
	yaml "gopkg.in/yaml.v2"
)

const Version = "1.0"

var cfgPath = flag.String("config", "config.yml", "Path to a config file")
var version = flag.Bool("version", false, "Print the version string and exit")

func main() {
	start := time.Now()
	flag.Parse()
	logger := handlers.Logger
	if *version {
		fmt.Fprintf(os.Stderr, "zonewidget-server version %s\n", Version)
		os.Exit(0)
	}

	c := new(server.FileConfig)
	data, err := os.ReadFile(*cfgPath)
	if err == nil {
		if err := yaml.Unmarshal(data, c); err != nil {
			logger.Error("Couldn't parse config file", "err", err)
			os.Exit(2)
		}
	} else if !os.IsNotExist(err) {
		logger.Error("Couldn't read config file", "err", err)
		os.Exit(2)
	}
	c.Widget.Normalize()

	var zones []zonewidget.Zone
	if c.ZonesFile != "" {
		raw, err := os.ReadFile(c.ZonesFile)
		if err != nil {
			logger.Error("Couldn't read zones file", "file", c.ZonesFile, "err", err)
			os.Exit(2)
		}
		zones, err = zonewidget.Decode(raw, 0, zonewidget.DecodeOptions{})
		if err != nil {
			logger.Error("Couldn't decode zones file", "file", c.ZonesFile, "err", err)
			os.Exit(2)
		}
	}

	if c.Port == nil {
		port, ok := os.LookupEnv("PORT")
		if ok {
			iPort, err := strconv.Atoi(port)
			if err != nil {
				logger.Error("Invalid port", "err", err, "port", port)
				os.Exit(2)
			}
			c.Port = &iPort
		} else {
			c.Port = &server.DefaultPort
		}
	}

	srv := server.New(&c.Widget, zones, clock.NewSystem())
	httpServer := &http.Server{
		Handler:     srv.Handler(),
		ReadTimeout: server.ReadTimeout,
	}
	addr := ":" + strconv.Itoa(*c.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("Error listening", "addr", addr, "err", err)
		os.Exit(2)
	}
	logger.Info("Started server", "time", time.Since(start).Round(100*time.Microsecond),
		"port", *c.Port, "zones", len(zones))
	if err := httpServer.Serve(ln); err != nil {
		logger.Error("server shut down", "err", err)
	}
}
