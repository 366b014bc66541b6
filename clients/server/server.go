// Package server provides the GoStego web UI and HTTP API.
package server

import (
	"bytes"
	"context"
	"crypto/rand"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/xob0t/GoStego/pkg/config"
	"github.com/xob0t/GoStego/pkg/imageio"
	"github.com/xob0t/GoStego/pkg/lsb"
	"github.com/xob0t/GoStego/pkg/stego"
)

//go:embed web/*
var webContent embed.FS

// ── Asset Manager ──

// Uploaded covers are kept in memory so a client can encode several
// payloads into the same cover without re-uploading it. The store is
// bounded by count and total size.
type asset struct {
	Name string
	Data []byte
	Mime string
}

var errAssetStoreFull = errors.New("asset store full")

type assetManager struct {
	mu       sync.RWMutex
	assets   map[string]*asset
	size     int64
	maxCount int
	maxBytes int64
}

func newAssetManager(maxCount int, maxBytes int64) *assetManager {
	return &assetManager{
		assets:   make(map[string]*asset),
		maxCount: maxCount,
		maxBytes: maxBytes,
	}
}

func (am *assetManager) add(name string, data []byte, mimeType string) (string, error) {
	am.mu.Lock()
	defer am.mu.Unlock()
	if len(am.assets) >= am.maxCount {
		return "", fmt.Errorf("%w: %d assets stored", errAssetStoreFull, len(am.assets))
	}
	if am.size+int64(len(data)) > am.maxBytes {
		return "", fmt.Errorf("%w: %d of %d bytes used", errAssetStoreFull, am.size, am.maxBytes)
	}
	id := rand.Text()
	am.assets[id] = &asset{Name: name, Data: data, Mime: mimeType}
	am.size += int64(len(data))
	return id, nil
}

func (am *assetManager) get(id string) (*asset, bool) {
	am.mu.RLock()
	a, ok := am.assets[id]
	am.mu.RUnlock()
	return a, ok
}

func (am *assetManager) listAll() []map[string]interface{} {
	am.mu.RLock()
	defer am.mu.RUnlock()
	result := make([]map[string]interface{}, 0, len(am.assets))
	for id, a := range am.assets {
		result = append(result, map[string]interface{}{
			"id":   id,
			"name": a.Name,
			"mime": a.Mime,
			"size": len(a.Data),
		})
	}
	return result
}

func (am *assetManager) remove(id string) bool {
	am.mu.Lock()
	defer am.mu.Unlock()
	a, ok := am.assets[id]
	if !ok {
		return false
	}
	delete(am.assets, id)
	am.size -= int64(len(a.Data))
	return true
}

// ── Server ──

// Server serves the four codec operations over HTTP.
type Server struct {
	assets  *assetManager
	conf    *config.Config
	decoder lsb.Decoder
	log     zerolog.Logger
}

// New creates a server using conf for limits and output format.
func New(conf *config.Config, logger zerolog.Logger) *Server {
	return &Server{
		assets:  newAssetManager(conf.Server.MaxAssets, conf.Server.MaxAssetBytes),
		conf:    conf,
		decoder: conf.Decoder(),
		log:     logger,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API routes.
	mux.HandleFunc("POST /api/encode/text", s.handleEncodeText)
	mux.HandleFunc("POST /api/encode/image", s.handleEncodeImage)
	mux.HandleFunc("POST /api/decode/text", s.handleDecodeText)
	mux.HandleFunc("POST /api/decode/image", s.handleDecodeImage)
	mux.HandleFunc("POST /api/capacity", s.handleCapacity)
	mux.HandleFunc("POST /api/upload/image", s.handleUploadImage)
	mux.HandleFunc("GET /api/assets/{id}", s.handleGetAsset)
	mux.HandleFunc("DELETE /api/assets/{id}", s.handleDeleteAsset)
	mux.HandleFunc("GET /api/assets", s.handleListAssets)

	// Static files.
	webFS, err := fs.Sub(webContent, "web")
	if err == nil {
		mux.Handle("/", http.FileServer(http.FS(webFS)))
	}

	return s.logRequests(mux)
}

// RunServe starts the server and shuts it down when ctx is cancelled.
func RunServe(ctx context.Context, conf *config.Config, logger zerolog.Logger) error {
	s := New(conf, logger)
	hs := &http.Server{
		Addr:              conf.Server.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	logger.Info().Str("addr", conf.Server.Address).Msg("GoStego UI listening")

	if conf.Server.OpenBrowser {
		go openBrowser(browserURL(conf.Server.Address), logger)
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// ── Request helpers ──

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.conf.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.conf.Server.MaxUploadBytes); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	return nil
}

// formImage decodes the image uploaded as field, or the stored asset named
// by field+"_id".
func (s *Server) formImage(r *http.Request, field string) (image.Image, error) {
	if id := r.FormValue(field + "_id"); id != "" {
		a, ok := s.assets.get(id)
		if !ok {
			return nil, fmt.Errorf("%s_id %q: unknown asset", field, id)
		}
		img, _, err := imageio.DecodeLimited(a.Data, s.conf.Server.MaxImagePixels)
		return img, err
	}

	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%s: no file uploaded", field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	img, _, err := imageio.DecodeLimited(data, s.conf.Server.MaxImagePixels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return img, nil
}

func (s *Server) outputFormat(r *http.Request) string {
	if f := r.FormValue("format"); f != "" {
		return f
	}
	return s.conf.OutputFormat
}

func (s *Server) writeImage(w http.ResponseWriter, img image.Image, format, name string) {
	var buf bytes.Buffer
	if err := imageio.Encode(&buf, img, format); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/"+format)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	w.Write(buf.Bytes())
}

// statusFor maps codec and I/O errors to HTTP status codes.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, lsb.ErrCapacityExceeded), errors.Is(err, imageio.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errAssetStoreFull):
		return http.StatusInsufficientStorage
	case errors.Is(err, lsb.ErrNoHiddenData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	s.log.Warn().Err(err).Int("status", code).Msg("request failed")
	http.Error(w, err.Error(), code)
}

// ── Codec endpoints ──

func (s *Server) handleEncodeText(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.writeError(w, err)
		return
	}
	cover, err := s.formImage(r, "cover")
	if err != nil {
		s.writeError(w, err)
		return
	}

	text := []byte(r.FormValue("text"))
	if file, _, err := r.FormFile("text_file"); err == nil {
		text, err = io.ReadAll(file)
		file.Close()
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	img, err := stego.HideText(cover, text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeImage(w, img, s.outputFormat(r), "stego")
}

func (s *Server) handleEncodeImage(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.writeError(w, err)
		return
	}
	cover, err := s.formImage(r, "cover")
	if err != nil {
		s.writeError(w, err)
		return
	}
	secret, err := s.formImage(r, "secret")
	if err != nil {
		s.writeError(w, err)
		return
	}
	fit, _ := strconv.ParseBool(r.FormValue("fit"))

	img, err := stego.HideImage(cover, secret, fit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeImage(w, img, s.outputFormat(r), "stego")
}

func (s *Server) handleDecodeText(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.writeError(w, err)
		return
	}
	img, err := s.formImage(r, "cover")
	if err != nil {
		s.writeError(w, err)
		return
	}
	text, err := stego.RevealText(img, s.decoder)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(text)
}

func (s *Server) handleDecodeImage(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.writeError(w, err)
		return
	}
	img, err := s.formImage(r, "cover")
	if err != nil {
		s.writeError(w, err)
		return
	}
	secret, err := stego.RevealImage(img, s.decoder)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeImage(w, secret, s.outputFormat(r), "secret")
}

func (s *Server) handleCapacity(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.writeError(w, err)
		return
	}
	img, err := s.formImage(r, "cover")
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stego.Capacity(img))
}

// ── Upload ──

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.writeError(w, err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, err)
		return
	}
	_, format, err := imageio.DecodeConfig(data, s.conf.Server.MaxImagePixels)
	if err != nil {
		s.writeError(w, fmt.Errorf("upload %s: %w", header.Filename, err))
		return
	}
	id, err := s.assets.add(header.Filename, data, "image/"+format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"id":   id,
		"name": header.Filename,
		"url":  "/api/assets/" + id,
	})
}

// ── Asset serving ──

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	a, ok := s.assets.get(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", a.Mime)
	w.Write(a.Data)
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.assets.listAll())
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.assets.remove(id) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted", "id": id})
}

// ── Helpers ──

func browserURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string, logger zerolog.Logger) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		logger.Warn().Err(err).Str("url", url).Msg("could not open browser")
		return
	}
	go cmd.Wait()
}
