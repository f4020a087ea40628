package server

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
)

func textHandler(body, contentType string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, body)
	})
}

func serve(h http.Handler, acceptEncoding string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCompress(t *testing.T) {
	large := strings.Repeat("editorkit ", 500)
	mw := Compress(DefaultCompressConfig())

	t.Run("brotli preferred", func(t *testing.T) {
		rec := serve(mw(textHandler(large, "text/html; charset=utf-8")), "gzip, br")
		if rec.Header().Get("Content-Encoding") != "br" {
			t.Fatalf("expected br, got %q", rec.Header().Get("Content-Encoding"))
		}
		if rec.Code != http.StatusCreated {
			t.Errorf("status should be preserved, got %d", rec.Code)
		}
		out, err := io.ReadAll(brotli.NewReader(rec.Body))
		if err != nil || string(out) != large {
			t.Errorf("brotli round trip failed: %v", err)
		}
	})

	t.Run("gzip", func(t *testing.T) {
		rec := serve(mw(textHandler(large, "application/json")), "gzip")
		if rec.Header().Get("Content-Encoding") != "gzip" {
			t.Fatalf("expected gzip, got %q", rec.Header().Get("Content-Encoding"))
		}
		zr, err := gzip.NewReader(bytes.NewReader(rec.Body.Bytes()))
		if err != nil {
			t.Fatal(err)
		}
		out, _ := io.ReadAll(zr)
		if string(out) != large {
			t.Error("gzip round trip failed")
		}
	})

	t.Run("brotli disabled", func(t *testing.T) {
		cfg := DefaultCompressConfig()
		cfg.EnableBrotli = false
		rec := serve(Compress(cfg)(textHandler(large, "text/plain")), "br, gzip")
		if rec.Header().Get("Content-Encoding") != "gzip" {
			t.Errorf("expected gzip fallback, got %q", rec.Header().Get("Content-Encoding"))
		}
	})

	skipped := []struct {
		name           string
		body           string
		contentType    string
		acceptEncoding string
	}{
		{"small body", "tiny", "text/html", "gzip"},
		{"no accept encoding", large, "text/html", ""},
		{"refused encoding", large, "text/html", "gzip;q=0"},
		{"binary type", large, "image/png", "gzip"},
	}
	for _, tt := range skipped {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(mw(textHandler(tt.body, tt.contentType)), tt.acceptEncoding)
			if enc := rec.Header().Get("Content-Encoding"); enc != "" {
				t.Errorf("expected no compression, got %q", enc)
			}
			if rec.Body.String() != tt.body {
				t.Error("body should pass through unchanged")
			}
			if rec.Code != http.StatusCreated {
				t.Errorf("status should be preserved, got %d", rec.Code)
			}
		})
	}

	t.Run("sniffed content type", func(t *testing.T) {
		rec := serve(mw(textHandler("<!DOCTYPE html>"+large, "")), "gzip")
		if rec.Header().Get("Content-Encoding") != "gzip" {
			t.Errorf("expected sniffed html to be compressed, got %q", rec.Header().Get("Content-Encoding"))
		}
	})
}

func TestShouldCompress(t *testing.T) {
	types := map[string]bool{"text/*": true, "application/json": true}
	tests := map[string]bool{
		"text/css":                        true,
		"application/json; charset=utf-8": true,
		"image/svg+xml":                   false,
	}
	for ct, want := range tests {
		h := http.Header{}
		h.Set("Content-Type", ct)
		if got := shouldCompress(h, types); got != want {
			t.Errorf("%s: expected %v, got %v", ct, want, got)
		}
	}

	h := http.Header{}
	h.Set("Content-Type", "text/css")
	h.Set("Content-Encoding", "gzip")
	if shouldCompress(h, types) {
		t.Error("already encoded responses must not be compressed again")
	}
}
