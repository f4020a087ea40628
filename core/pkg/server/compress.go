package server

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
)

// CompressionLevel defines compression level
type CompressionLevel int

const (
	// BestSpeed provides fastest compression with lower ratio
	BestSpeed CompressionLevel = iota
	// BestCompression provides best compression ratio but slower
	BestCompression
	// DefaultCompression balances speed and compression ratio
	DefaultCompression
)

// CompressConfig defines configuration for compression middleware
type CompressConfig struct {
	// Level defines compression level (default: DefaultCompression)
	Level CompressionLevel

	// MinLength defines minimum body size to compress (bytes, default: 1024)
	MinLength int

	// CompressionTypes defines Content-Types that should be compressed.
	// Entries ending in /* match a whole family.
	CompressionTypes []string

	// EnableBrotli prefers brotli over gzip when the client supports it
	EnableBrotli bool
}

// DefaultCompressConfig returns default compression configuration
func DefaultCompressConfig() *CompressConfig {
	return &CompressConfig{
		Level:     DefaultCompression,
		MinLength: 1024, // 1KB
		CompressionTypes: []string{
			"text/html",
			"text/css",
			"text/plain",
			"text/javascript",
			"application/json",
			"application/javascript",
		},
		EnableBrotli: true,
	}
}

// bufferedWriter holds the response until the handler is done
type bufferedWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (b *bufferedWriter) WriteHeader(code int) {
	if b.status == 0 {
		b.status = code
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.buf.Write(p)
}

// Compress returns compression middleware with custom config
func Compress(config *CompressConfig) Middleware {
	if config == nil {
		config = DefaultCompressConfig()
	}
	if config.MinLength <= 0 {
		config.MinLength = 1024
	}

	// Build compression types map for fast lookup
	compressTypes := make(map[string]bool, len(config.CompressionTypes))
	for _, ct := range config.CompressionTypes {
		compressTypes[strings.ToLower(ct)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			encoding := negotiate(r.Header.Get("Accept-Encoding"), config.EnableBrotli)
			if encoding == "" {
				next.ServeHTTP(w, r)
				return
			}

			bw := &bufferedWriter{ResponseWriter: w}
			next.ServeHTTP(bw, r)

			status := bw.status
			if status == 0 {
				status = http.StatusOK
			}
			body := bw.buf.Bytes()
			header := w.Header()
			header.Add("Vary", "Accept-Encoding")

			if len(body) > 0 && header.Get("Content-Type") == "" {
				header.Set("Content-Type", http.DetectContentType(body))
			}

			if len(body) >= config.MinLength && shouldCompress(header, compressTypes) {
				var (
					compressed []byte
					err        error
				)
				if encoding == "br" {
					compressed, err = compressBrotli(body, config.Level)
				} else {
					compressed, err = compressGzip(body, config.Level)
				}

				// Only use compressed if it's actually smaller
				if err == nil && len(compressed) < len(body) {
					body = compressed
					header.Set("Content-Encoding", encoding)
					header.Set("Content-Length", strconv.Itoa(len(body)))
				}
			}

			w.WriteHeader(status)
			_, _ = w.Write(body)
		})
	}
}

// negotiate picks br or gzip from an Accept-Encoding header
func negotiate(acceptEncoding string, brotliEnabled bool) string {
	var br, gz bool
	for _, part := range strings.Split(acceptEncoding, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.ReplaceAll(strings.TrimSpace(params), " ", "") == "q=0" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "br":
			br = true
		case "gzip":
			gz = true
		}
	}
	switch {
	case br && brotliEnabled:
		return "br"
	case gz:
		return "gzip"
	}
	return ""
}

// shouldCompress checks if response should be compressed
func shouldCompress(header http.Header, compressTypes map[string]bool) bool {
	// Don't compress if already compressed
	if header.Get("Content-Encoding") != "" {
		return false
	}

	// Extract base content type (remove charset, etc.)
	ct := strings.ToLower(strings.TrimSpace(strings.Split(header.Get("Content-Type"), ";")[0]))
	if compressTypes[ct] {
		return true
	}

	// Check wildcard patterns (e.g., text/*)
	for compressType := range compressTypes {
		if prefix, ok := strings.CutSuffix(compressType, "/*"); ok && strings.HasPrefix(ct, prefix+"/") {
			return true
		}
	}
	return false
}

// compressGzip compresses data using gzip
func compressGzip(data []byte, level CompressionLevel) ([]byte, error) {
	var buf bytes.Buffer

	var gzipLevel int
	switch level {
	case BestSpeed:
		gzipLevel = gzip.BestSpeed
	case BestCompression:
		gzipLevel = gzip.BestCompression
	default:
		gzipLevel = gzip.DefaultCompression
	}

	writer, err := gzip.NewWriterLevel(&buf, gzipLevel)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// compressBrotli compresses data using brotli
func compressBrotli(data []byte, level CompressionLevel) ([]byte, error) {
	var buf bytes.Buffer

	var brotliLevel int
	switch level {
	case BestSpeed:
		brotliLevel = brotli.BestSpeed
	case BestCompression:
		brotliLevel = brotli.BestCompression
	default:
		brotliLevel = brotli.DefaultCompression
	}

	writer := brotli.NewWriterLevel(&buf, brotliLevel)
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
