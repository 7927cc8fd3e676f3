package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	zonewidget "github.com/A01L/ZoneWidget"
	"github.com/A01L/ZoneWidget/geo"
)

type ZoneService struct {
	client *Client
}

// Get fetches a zones document (export envelope or bare array) from the
// given path. A non-success response is rejected with the status code in the
// message; the body is decoded with no limit, since the viewer displays
// whatever it is given.
func (s *ZoneService) Get(ctx context.Context, path string) ([]zonewidget.Zone, error) {
	req, err := s.client.NewRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	httpClient := s.client.Client.Client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch zones: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch zones: server returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch zones: %w", err)
	}
	return zonewidget.Decode(data, 0, zonewidget.DecodeOptions{
		DeriveCenter: deriveCenter,
	})
}

// FetchURL fetches an absolute zones URL.
func FetchURL(ctx context.Context, rawurl string) ([]zonewidget.Zone, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, fmt.Errorf("fetch zones: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("fetch zones: %q is not an absolute URL", rawurl)
	}
	c := New(u.Scheme + "://" + u.Host)
	return c.Zones.Get(ctx, u.RequestURI())
}

func deriveCenter(geojson json.RawMessage) (zonewidget.LatLng, bool) {
	p, ok := geo.CenterOf(geojson)
	if !ok {
		return zonewidget.LatLng{}, false
	}
	return zonewidget.LatLng{Lat: p.Lat, Lng: p.Lng}, true
}
