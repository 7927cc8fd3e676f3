package widget

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

func TestAssetsEnsureOnce(t *testing.T) {
	t.Parallel()
	var calls int32
	a := NewAssets(func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.Ensure(context.Background()); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("load ran %d times", got)
	}
}

func TestAssetsEnsureMemoizesError(t *testing.T) {
	t.Parallel()
	var calls int32
	boom := errors.New("cdn down")
	a := NewAssets(func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return boom
	})

	for i := 0; i < 3; i++ {
		if err := a.Ensure(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("failed load retried %d times", got)
	}
}

func TestAssetsNilLoad(t *testing.T) {
	t.Parallel()
	if err := NewAssets(nil).Ensure(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestFetchAssets(t *testing.T) {
	t.Parallel()

	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer ok.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer broken.Close()

	t.Run("all available", func(t *testing.T) {
		load := FetchAssets(nil, nil, []string{ok.URL + "/lib.js"}, []string{ok.URL + "/lib.css"})
		if err := load(context.Background()); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("missing script is fatal", func(t *testing.T) {
		load := FetchAssets(nil, nil, []string{broken.URL + "/lib.js"}, nil)
		if err := load(context.Background()); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("missing stylesheet is tolerated", func(t *testing.T) {
		load := FetchAssets(nil, nil, []string{ok.URL + "/lib.js"}, []string{broken.URL + "/lib.css"})
		if err := load(context.Background()); err != nil {
			t.Fatal(err)
		}
	})
}
