package viewroutes

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBuffered(t *testing.T) {
	rec := httptest.NewRecorder()
	bw := newBuffered(rec)

	bw.WriteHeader(http.StatusCreated)
	_, _ = bw.Write([]byte("Hello, "))
	_, _ = bw.Write([]byte("World!"))
	// headers may still be set after the body was written to the buffer
	rec.Header().Set("X-Test", "test")

	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("buffered writer leaked output before close: %d %q", rec.Code, rec.Body.String())
	}
	if err := bw.close(); err != nil {
		t.Fatal(err)
	}
	res := rec.Result()
	if res.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", res.StatusCode, http.StatusCreated)
	}
	if rec.Body.String() != "Hello, World!" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if res.Header.Get("X-Test") != "test" {
		t.Errorf("X-Test = %q", res.Header.Get("X-Test"))
	}
}

func TestBufferedDiscard(t *testing.T) {
	rec := httptest.NewRecorder()
	bw := newBuffered(rec)
	_, _ = bw.Write([]byte("half a page"))
	bw.discard()

	http.Error(rec, "error page", http.StatusInternalServerError)
	if rec.Body.String() != "error page\n" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestBufferedUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	bw := newBuffered(rec)

	if bw.Unwrap() != rec {
		t.Errorf("Unwrap() did not return the original ResponseWriter")
	}

	rc := http.NewResponseController(bw)
	if err := rc.Flush(); err != nil {
		t.Errorf("expected Flush to work through Unwrap, got error: %v", err)
	}
	if err := rc.SetWriteDeadline(time.Now().Add(time.Second)); !errors.Is(err, http.ErrNotSupported) {
		t.Errorf("expected ErrNotSupported for SetWriteDeadline, got %v", err)
	}
}

func TestSortedKeys(t *testing.T) {
	got := sortedKeys(map[string]int{"Page": 1, "CountryView": 2, "CountryList": 3})
	want := []string{"CountryList", "CountryView", "Page"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sortedKeys() = %v, want %v", got, want)
		}
	}
}
