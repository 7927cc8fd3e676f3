package widget

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	zonewidget "github.com/A01L/ZoneWidget"
	"github.com/A01L/ZoneWidget/clock"
)

func envelopeJSON(count int) []byte {
	zones := make([]zonewidget.Zone, count)
	for i := range zones {
		zones[i] = zonewidget.Zone{
			ID:        fmt.Sprintf("zone-%d", i),
			CreatedAt: testNow.UnixMilli(),
			GeoJSON:   drawPayload(-0.1 * float64(i+1)),
			Zoom:      14,
		}
	}
	env := zonewidget.Encode(zones, zonewidget.Meta{Limit: 4, Zoom: 13}, clock.NewFixed(testNow))
	data, err := env.MarshalIndent()
	if err != nil {
		panic(err)
	}
	return data
}

func TestViewerReplaceIsUnbounded(t *testing.T) {
	t.Parallel()
	v := NewViewer(&Config{Limit: 2}, ViewerClock(clock.NewFixed(testNow)))
	f := &fakeSurface{}
	if err := v.Mount(context.Background(), f); err != nil {
		t.Fatal(err)
	}

	// Six zones against a limit-2 config: the viewer shows all of them.
	if err := v.Replace(envelopeJSON(6)); err != nil {
		t.Fatal(err)
	}
	if got := v.Zones(); len(got) != 6 {
		t.Fatalf("viewer kept %d zones", len(got))
	}
	if len(f.drawn) != 6 {
		t.Fatalf("surface shows %d zones", len(f.drawn))
	}
	if f.drawing {
		t.Error("viewer must never enable drawing")
	}
}

func TestViewerReplaceFailureUntouched(t *testing.T) {
	t.Parallel()
	v := NewViewer(nil, ViewerClock(clock.NewFixed(testNow)))
	if err := v.Replace(envelopeJSON(2)); err != nil {
		t.Fatal(err)
	}
	if err := v.Replace([]byte(`{"other": true}`)); err == nil {
		t.Fatal("payload without zones accepted")
	}
	if got := v.Zones(); len(got) != 2 {
		t.Fatalf("display changed after failed replace: %d zones", len(got))
	}
}

func TestViewerLoad(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write(envelopeJSON(3))
		}))
		defer srv.Close()

		v := NewViewer(nil, ViewerClock(clock.NewFixed(testNow)))
		if err := v.Load(context.Background(), srv.URL+"/zones.json"); err != nil {
			t.Fatal(err)
		}
		if got := v.Zones(); len(got) != 3 {
			t.Fatalf("loaded %d zones", len(got))
		}
	})

	t.Run("server error carries the status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		v := NewViewer(nil)
		err := v.Load(context.Background(), srv.URL+"/zones.json")
		if err == nil {
			t.Fatal("expected an error")
		}
		if !strings.Contains(err.Error(), "500") {
			t.Fatalf("error %q does not carry the status", err)
		}
		if len(v.Zones()) != 0 {
			t.Fatal("display changed after failed load")
		}
	})
}

func TestViewerTeardown(t *testing.T) {
	t.Parallel()
	v := NewViewer(nil, ViewerClock(clock.NewFixed(testNow)))
	f := &fakeSurface{}
	if err := v.Mount(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if err := v.Replace(envelopeJSON(2)); err != nil {
		t.Fatal(err)
	}

	v.Teardown()
	if len(f.drawn) != 0 || f.previews != nil {
		t.Error("teardown left marks on the surface")
	}
	if len(v.Zones()) != 0 {
		t.Error("teardown kept display data")
	}
	// A torn-down viewer quietly ignores further data.
	if err := v.Replace(envelopeJSON(1)); err != nil {
		t.Fatal(err)
	}
}
