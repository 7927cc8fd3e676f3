package widget

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	log "github.com/inconshreveable/log15"
	"golang.org/x/sync/errgroup"
)

// LoadFunc fetches the external mapping/drawing assets.
type LoadFunc func(ctx context.Context) error

// Assets guards the one-time load of the external mapping library. The load
// runs at most once per process; concurrent mounts share the first result,
// including its error. Instances never tear the result down.
type Assets struct {
	once sync.Once
	load LoadFunc
	err  error
}

// NewAssets wraps a load function. A nil function makes Ensure a no-op,
// for hosts that ship the assets themselves.
func NewAssets(load LoadFunc) *Assets {
	return &Assets{load: load}
}

// Ensure performs the load on first call and replays the memoized result on
// every later one.
func (a *Assets) Ensure(ctx context.Context) error {
	a.once.Do(func() {
		if a.load != nil {
			a.err = a.load(ctx)
		}
	})
	return a.err
}

// SharedAssets is the process-wide loader used when a widget is built
// without an explicit one.
var SharedAssets = NewAssets(nil)

// FetchAssets returns a LoadFunc that checks the availability of remote
// script and stylesheet URLs. Script failures are fatal; stylesheet failures
// are logged and ignored, since the widget degrades to unstyled rendering.
func FetchAssets(client *http.Client, logger log.Logger, scripts, styles []string) LoadFunc {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.New("module", "widget")
	}
	return func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		for _, u := range scripts {
			u := u
			g.Go(func() error {
				if err := headOK(gctx, client, u); err != nil {
					return fmt.Errorf("load script %s: %w", u, err)
				}
				return nil
			})
		}
		for _, u := range styles {
			u := u
			g.Go(func() error {
				if err := headOK(gctx, client, u); err != nil {
					logger.Warn("stylesheet unavailable, continuing", "url", u, "err", err)
				}
				return nil
			})
		}
		return g.Wait()
	}
}

func headOK(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
