// Package server exposes the recognizer as a JSON API over TCP or a unix
// socket.
package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/mathboard/mathboard/classifier"
	"github.com/mathboard/mathboard/combination"
	"github.com/mathboard/mathboard/config"
	"github.com/mathboard/mathboard/encoding/rm"
	"github.com/mathboard/mathboard/grid"
	"github.com/mathboard/mathboard/log"
	"github.com/mathboard/mathboard/raster"
	"github.com/mathboard/mathboard/recognize"
	"github.com/mathboard/mathboard/segment"
	"github.com/mathboard/mathboard/stroke"
)

const maxBody = 32 << 20

// ErrPatchTooLarge is returned for a stroke image above the pixel budget.
var ErrPatchTooLarge = errors.New("server: stroke image too large")

type ApiServer struct {
	recognizer *recognize.Recognizer
}

func NewApiServer(r *recognize.Recognizer) *ApiServer {
	return &ApiServer{recognizer: r}
}

func (s *ApiServer) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
}

func (s *ApiServer) writeSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SuccessResponse{Data: data})
}

// statusFor maps request errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, segment.ErrNoSegmentation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, segment.ErrNoStrokes),
		errors.Is(err, stroke.ErrDuplicateID),
		errors.Is(err, grid.ErrInvalidCellSize),
		errors.Is(err, grid.ErrInvalidBoard),
		errors.Is(err, combination.ErrTooManyElements),
		errors.Is(err, config.ErrInvalid),
		errors.Is(err, rm.ErrUnknownHeader),
		errors.Is(err, rm.ErrTruncated),
		errors.Is(err, raster.ErrNoInk),
		errors.Is(err, ErrPatchTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, classifier.ErrUnavailable),
		errors.Is(err, classifier.ErrBadPrediction):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// POST /api/segment
func (s *ApiServer) handleSegment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SegmentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %v", err))
		return
	}

	arena, err := decodeStrokes(req.Strokes, s.recognizer.Config().Server.MaxPatchPixels)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.recognizer.Recognize(r.Context(), arena)
	s.respond(w, res, err)
}

// POST /api/segment/rm (multipart, field "file")
func (s *ApiServer) handleSegmentRm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxBody); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("failed to parse multipart form: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("file is required: %v", err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to read uploaded file: %v", err))
		return
	}

	page := &rm.Rm{}
	if err := page.UnmarshalBinary(content); err != nil {
		s.writeError(w, http.StatusBadRequest, pkgerrors.Wrapf(err, "can't decode %s", header.Filename))
		return
	}

	res, err := s.recognizer.RecognizePage(r.Context(), page)
	s.respond(w, res, err)
}

func (s *ApiServer) respond(w http.ResponseWriter, res *recognize.Result, err error) {
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			log.Error.Printf("segment request failed: %v", err)
		} else {
			log.Trace.Printf("segment request rejected: %v", err)
		}
		s.writeError(w, status, err)
		return
	}
	s.writeSuccess(w, resultToJSON(res))
}

// GET /api/health
func (s *ApiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeSuccess(w, map[string]string{"status": "ok"})
}

// GET /api/config
func (s *ApiServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cfg := s.recognizer.Config()
	s.writeSuccess(w, map[string]interface{}{
		"board":      cfg.Board,
		"search":     cfg.Search,
		"mnist_size": cfg.Raster.MNISTSize,
	})
}

// decodeStrokes turns uploaded patches into strokes. The image header is
// checked against maxPixels before any pixel is decoded.
func decodeStrokes(in []StrokeJSON, maxPixels int) (stroke.Arena, error) {
	arena := make(stroke.Arena, 0, len(in))
	for _, sj := range in {
		data, err := base64.StdEncoding.DecodeString(sj.PNG)
		if err != nil {
			return nil, fmt.Errorf("stroke %d: invalid base64: %v", sj.ID, err)
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("stroke %d: invalid image: %v", sj.ID, err)
		}
		if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
			return nil, fmt.Errorf("%w: stroke %d is %dx%d, limit %d pixels", ErrPatchTooLarge, sj.ID, cfg.Width, cfg.Height, maxPixels)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("stroke %d: invalid image: %v", sj.ID, err)
		}
		arena = append(arena, stroke.New(stroke.ID(sj.ID), stroke.Point{X: sj.X, Y: sj.Y}, toGray(img)))
	}
	return arena, nil
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return g
}

// Handler returns the API routes.
func (s *ApiServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/segment", s.handleSegment)
	mux.HandleFunc("/api/segment/rm", s.handleSegmentRm)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/config", s.handleConfig)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
	<title>mathboard API</title>
</head>
<body>
	<h1>mathboard API</h1>
	<h2>Endpoints:</h2>
	<ul>
		<li>POST /api/segment - Segment uploaded stroke patches</li>
		<li>POST /api/segment/rm - Segment an uploaded .rm page</li>
		<li>GET /api/config - Show search settings</li>
		<li>GET /api/health - Health check</li>
	</ul>
</body>
</html>
		`)
	})
	return mux
}

// Listen opens addr, which is host:port or unix:<path>. A stale socket file
// is removed first.
func Listen(addr string) (net.Listener, error) {
	if path := strings.TrimPrefix(addr, "unix:"); path != addr {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, pkgerrors.Wrap(err, "failed to remove stale socket")
		}
		return net.Listen("unix", path)
	}
	return net.Listen("tcp", addr)
}

// Serve runs the API on addr until ctx is done.
func (s *ApiServer) Serve(ctx context.Context, addr string) error {
	ln, err := Listen(addr)
	if err != nil {
		return pkgerrors.Wrapf(err, "can't listen on %s", addr)
	}

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info.Printf("Starting HTTP server on %s", addr)
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
