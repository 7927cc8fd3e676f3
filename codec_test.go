package zonewidget

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/A01L/ZoneWidget/clock"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	clk := clock.NewFixed(testNow)
	zones := []Zone{
		{
			ID:        "zone-a",
			CreatedAt: 1700000000000,
			GeoJSON:   testGeoJSON(-0.1),
			Center:    &LatLng{Lat: 51.505, Lng: -0.095},
			Zoom:      15,
		},
		{
			ID:        "zone-b",
			CreatedAt: 1700000001000,
			GeoJSON:   testGeoJSON(-0.2),
			Center:    &LatLng{Lat: 51.52, Lng: -0.19},
			Zoom:      14,
		},
	}

	env := Encode(zones, Meta{Limit: 4, Zoom: 13}, clk)
	if env.Version != Version {
		t.Fatalf("expected version %d, got %d", Version, env.Version)
	}
	if env.ExportedAt != testNow.Format(time.RFC3339) {
		t.Fatalf("expected exportedAt %s, got %s", testNow.Format(time.RFC3339), env.ExportedAt)
	}

	data, err := env.MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data, 4, DecodeOptions{Clock: clk})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(zones) {
		t.Fatalf("expected %d zones, got %d", len(zones), len(got))
	}
	for i := range zones {
		want := zones[i]
		if got[i].ID != want.ID {
			t.Errorf("zone %d: id %q != %q", i, got[i].ID, want.ID)
		}
		if got[i].CreatedAt != want.CreatedAt {
			t.Errorf("zone %d: createdAt %d != %d", i, got[i].CreatedAt, want.CreatedAt)
		}
		if got[i].Zoom != want.Zoom {
			t.Errorf("zone %d: zoom %d != %d", i, got[i].Zoom, want.Zoom)
		}
		if got[i].Center == nil || *got[i].Center != *want.Center {
			t.Errorf("zone %d: center %v != %v", i, got[i].Center, want.Center)
		}
		if !jsonEqual(t, got[i].GeoJSON, want.GeoJSON) {
			t.Errorf("zone %d: geometry changed across round trip", i)
		}
	}
}

// jsonEqual compares two documents ignoring the whitespace pretty-printing
// added by MarshalIndent.
func jsonEqual(t *testing.T, a, b json.RawMessage) bool {
	t.Helper()
	var ca, cb bytes.Buffer
	if err := json.Compact(&ca, a); err != nil {
		t.Fatal(err)
	}
	if err := json.Compact(&cb, b); err != nil {
		t.Fatal(err)
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}

func TestDecodeBareArray(t *testing.T) {
	t.Parallel()
	clk := clock.NewFixed(testNow)
	data := []byte(`[{"geojson": ` + string(testGeoJSON(-0.1)) + `}]`)
	zones, err := Decode(data, 4, DecodeOptions{Clock: clk})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(zones) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(zones))
	}
	if zones[0].ID == "" {
		t.Fatal("expected a generated id")
	}
	if zones[0].CreatedAt != testNow.UnixMilli() {
		t.Fatalf("expected createdAt near import time, got %d", zones[0].CreatedAt)
	}
	if zones[0].Zoom != DefaultZoom {
		t.Fatalf("expected default zoom, got %d", zones[0].Zoom)
	}
}

func TestDecodeTruncatesToLimit(t *testing.T) {
	t.Parallel()
	clk := clock.NewFixed(testNow)
	g1, g2, g3 := testGeoJSON(-0.1), testGeoJSON(-0.2), testGeoJSON(-0.3)
	data := []byte(`{"zones": [` +
		`{"geojson": ` + string(g1) + `},` +
		`{"geojson": ` + string(g2) + `},` +
		`{"geojson": ` + string(g3) + `}]}`)

	zones, err := Decode(data, 2, DecodeOptions{Clock: clk})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("expected exactly 2 zones, got %d", len(zones))
	}
	if !bytes.Equal(zones[0].GeoJSON, g1) || !bytes.Equal(zones[1].GeoJSON, g2) {
		t.Fatal("expected the first two input geometries in order")
	}
	for i := range zones {
		if zones[i].ID == "" {
			t.Errorf("zone %d: expected a generated id", i)
		}
		if zones[i].CreatedAt != testNow.UnixMilli() {
			t.Errorf("zone %d: expected createdAt near import time, got %d", i, zones[i].CreatedAt)
		}
	}
}

func TestDecodeEmptyArray(t *testing.T) {
	t.Parallel()
	zones, err := Decode([]byte(`[]`), 4, DecodeOptions{})
	if err != nil {
		t.Fatalf("expected no error for empty array, got %v", err)
	}
	if len(zones) != 0 {
		t.Fatalf("expected empty set, got %d zones", len(zones))
	}
}

func TestDecodeRejections(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"no zones key", `{"notZones": []}`, ErrInvalidFormat},
		{"zones not an array", `{"zones": 7}`, ErrInvalidFormat},
		{"scalar input", `42`, ErrInvalidFormat},
		{"garbage", `{{{`, ErrInvalidFormat},
		{"empty input", ``, ErrInvalidFormat},
		{"element without geometry", `[{"id": "x"}]`, ErrMissingGeometry},
		{"null geometry", `[{"geojson": null}]`, ErrMissingGeometry},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			if _, err := Decode([]byte(c.in), 4, DecodeOptions{}); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestDecodeAllOrNothing(t *testing.T) {
	t.Parallel()
	// The malformed element sits past the limit; it must still reject the
	// whole batch.
	data := []byte(`[` +
		`{"geojson": ` + string(testGeoJSON(-0.1)) + `},` +
		`{"geojson": ` + string(testGeoJSON(-0.2)) + `},` +
		`{"id": "no-geometry"}]`)
	if _, err := Decode(data, 2, DecodeOptions{}); !errors.Is(err, ErrMissingGeometry) {
		t.Fatalf("expected ErrMissingGeometry, got %v", err)
	}
}

func TestDecodeCoercions(t *testing.T) {
	t.Parallel()
	clk := clock.NewFixed(testNow)
	g := string(testGeoJSON(-0.1))

	t.Run("createdAt numeric string", func(t *testing.T) {
		zones, err := Decode([]byte(`[{"geojson": `+g+`, "createdAt": "1700000000000"}]`), 4, DecodeOptions{Clock: clk})
		if err != nil {
			t.Fatal(err)
		}
		if zones[0].CreatedAt != 1700000000000 {
			t.Fatalf("got %d", zones[0].CreatedAt)
		}
	})

	t.Run("createdAt RFC3339 string", func(t *testing.T) {
		zones, err := Decode([]byte(`[{"geojson": `+g+`, "createdAt": "2025-05-19T18:00:00Z"}]`), 4, DecodeOptions{Clock: clk})
		if err != nil {
			t.Fatal(err)
		}
		want := time.Date(2025, 5, 19, 18, 0, 0, 0, time.UTC).UnixMilli()
		if zones[0].CreatedAt != want {
			t.Fatalf("expected %d, got %d", want, zones[0].CreatedAt)
		}
	})

	t.Run("createdAt garbage defaults to now", func(t *testing.T) {
		zones, err := Decode([]byte(`[{"geojson": `+g+`, "createdAt": {"nested": true}}]`), 4, DecodeOptions{Clock: clk})
		if err != nil {
			t.Fatal(err)
		}
		if zones[0].CreatedAt != testNow.UnixMilli() {
			t.Fatalf("expected decode-time clock, got %d", zones[0].CreatedAt)
		}
	})

	t.Run("zoom non-numeric defaults", func(t *testing.T) {
		zones, err := Decode([]byte(`[{"geojson": `+g+`, "zoom": "not a zoom"}]`), 4, DecodeOptions{Clock: clk})
		if err != nil {
			t.Fatal(err)
		}
		if zones[0].Zoom != DefaultZoom {
			t.Fatalf("expected %d, got %d", DefaultZoom, zones[0].Zoom)
		}
	})

	t.Run("center must be a pair", func(t *testing.T) {
		zones, err := Decode([]byte(`[{"geojson": `+g+`, "center": [51.5]}]`), 4, DecodeOptions{Clock: clk})
		if err != nil {
			t.Fatal(err)
		}
		if zones[0].Center == nil || *zones[0].Center != FallbackCenter {
			t.Fatalf("expected fallback center, got %v", zones[0].Center)
		}
	})

	t.Run("center derivation wins over fallback", func(t *testing.T) {
		derived := LatLng{Lat: 51.9, Lng: -0.5}
		zones, err := Decode([]byte(`[{"geojson": `+g+`}]`), 4, DecodeOptions{
			Clock: clk,
			DeriveCenter: func(json.RawMessage) (LatLng, bool) {
				return derived, true
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		if zones[0].Center == nil || *zones[0].Center != derived {
			t.Fatalf("expected derived center, got %v", zones[0].Center)
		}
	})
}

func TestDecodeGoldenFile(t *testing.T) {
	t.Parallel()
	data, err := os.ReadFile(filepath.Join("testdata", "golden_zones.json"))
	if err != nil {
		t.Fatal(err)
	}
	zones, err := Decode(data, 4, DecodeOptions{Clock: clock.NewFixed(testNow)})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(zones))
	}
	if zones[0].ID != "0f8a1c2d-3e4b-4a5c-8d6e-7f8091a2b3c4" {
		t.Fatalf("id not preserved: %s", zones[0].ID)
	}
	if zones[0].Zoom != 15 || zones[1].Zoom != 16 {
		t.Fatalf("zooms %d/%d", zones[0].Zoom, zones[1].Zoom)
	}
	wantSecond := time.Date(2025, 5, 19, 18, 0, 0, 0, time.UTC).UnixMilli()
	if zones[1].CreatedAt != wantSecond {
		t.Fatalf("expected coerced createdAt %d, got %d", wantSecond, zones[1].CreatedAt)
	}
	if zones[0].Center == nil || zones[0].Center.Lat != 51.505 {
		t.Fatalf("center not preserved: %v", zones[0].Center)
	}
}

func TestExportFilename(t *testing.T) {
	t.Parallel()
	name := ExportFilename(time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC))
	if name != "zones_2025-06-01T123045Z.json" {
		t.Fatalf("got %q", name)
	}
	if strings.Contains(name, ":") {
		t.Fatalf("filename contains a colon: %q", name)
	}
}
