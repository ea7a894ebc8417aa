// Command fake-detector is a stand-in for the real inference service. It
// speaks the same multipart/JSON wire protocol and answers with
// deterministic geometry scaled to the uploaded frame, so the client and
// its pipeline can be exercised without a GPU box on the network.
package main

import (
	"encoding/json"
	"flag"
	"image"
	_ "image/jpeg"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type detection struct {
	ClassName  string    `json:"class_name"`
	Confidence float64   `json:"confidence"`
	BBox       []float64 `json:"bbox"`
}

type segment struct {
	ClassName  string       `json:"class_name"`
	Confidence float64      `json:"confidence"`
	BBox       []float64    `json:"bbox"`
	Mask       [][2]float64 `json:"mask"`
}

type imageMetadata struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type response struct {
	Status          string        `json:"status"`
	Count           int           `json:"count"`
	InferenceTimeMS float64       `json:"inference_time_ms"`
	Detections      []detection   `json:"detections,omitempty"`
	Segments        []segment     `json:"segments,omitempty"`
	ImageMeta       imageMetadata `json:"image_metadata"`
}

type server struct {
	log zerolog.Logger
}

func main() {
	addr := flag.String("addr", ":9001", "listen address")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("component", "fake-detector").Logger()

	s := &server{log: log}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/api/detect", s.handleDetect).Methods("POST")
	r.HandleFunc("/api/segment", s.handleSegment).Methods("POST")

	srv := &http.Server{
		Handler:      r,
		Addr:         *addr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info().Str("addr", *addr).Msg("listening")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"})
}

func (s *server) handleDetect(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseRequest(w, r)
	if !ok {
		return
	}

	dets := cannedDetections(req)
	writeJSON(w, response{
		Status:          "success",
		Count:           len(dets),
		InferenceTimeMS: 12.5,
		Detections:      dets,
		ImageMeta:       imageMetadata{Width: req.width, Height: req.height},
	})
	s.log.Info().Int("count", len(dets)).Int("width", req.width).Int("height", req.height).Msg("detect")
}

func (s *server) handleSegment(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseRequest(w, r)
	if !ok {
		return
	}

	segs := cannedSegments(req)
	writeJSON(w, response{
		Status:          "success",
		Count:           len(segs),
		InferenceTimeMS: 18.0,
		Segments:        segs,
		ImageMeta:       imageMetadata{Width: req.width, Height: req.height},
	})
	s.log.Info().Int("count", len(segs)).Int("width", req.width).Int("height", req.height).Msg("segment")
}

type request struct {
	width, height int
	minConfidence float64
	classes       map[string]struct{}
}

// parseRequest decodes the multipart form: the image part supplies the
// coordinate space, the confidence and classes fields filter the canned
// results the same way the real service filters model output.
func (s *server) parseRequest(w http.ResponseWriter, r *http.Request) (request, bool) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		s.fail(w, http.StatusBadRequest, "malformed multipart form")
		return request{}, false
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "missing image part")
		return request{}, false
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		s.fail(w, http.StatusBadRequest, "image is not decodable")
		return request{}, false
	}

	req := request{width: cfg.Width, height: cfg.Height, minConfidence: 0.5}
	if v := r.FormValue("confidence"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			req.minConfidence = f
		}
	}
	if v := r.FormValue("classes"); v != "" {
		req.classes = map[string]struct{}{}
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				req.classes[c] = struct{}{}
			}
		}
	}
	return req, true
}

// canned objects in unit coordinates, scaled to the uploaded frame. Two
// overlap so the client's topmost-wins hit-testing is exercisable.
var cannedObjects = []struct {
	class      string
	confidence float64
	box        [4]float64
}{
	{"person", 0.92, [4]float64{0.10, 0.15, 0.35, 0.85}},
	{"person", 0.71, [4]float64{0.28, 0.20, 0.50, 0.80}},
	{"dog", 0.64, [4]float64{0.55, 0.55, 0.80, 0.90}},
	{"car", 0.43, [4]float64{0.60, 0.10, 0.95, 0.40}},
}

func (r request) passes(class string, confidence float64) bool {
	if confidence < r.minConfidence {
		return false
	}
	if r.classes == nil {
		return true
	}
	_, ok := r.classes[class]
	return ok
}

func cannedDetections(req request) []detection {
	dets := []detection{}
	for _, o := range cannedObjects {
		if !req.passes(o.class, o.confidence) {
			continue
		}
		dets = append(dets, detection{
			ClassName:  o.class,
			Confidence: o.confidence,
			BBox:       scaleBox(o.box, req.width, req.height),
		})
	}
	return dets
}

func cannedSegments(req request) []segment {
	segs := []segment{}
	for _, o := range cannedObjects {
		if !req.passes(o.class, o.confidence) {
			continue
		}
		box := scaleBox(o.box, req.width, req.height)
		segs = append(segs, segment{
			ClassName:  o.class,
			Confidence: o.confidence,
			BBox:       box,
			Mask:       hexagonIn(box),
		})
	}
	return segs
}

func scaleBox(box [4]float64, w, h int) []float64 {
	return []float64{
		box[0] * float64(w),
		box[1] * float64(h),
		box[2] * float64(w),
		box[3] * float64(h),
	}
}

// hexagonIn builds a silhouette-like polygon inscribed in the box.
func hexagonIn(box []float64) [][2]float64 {
	x1, y1, x2, y2 := box[0], box[1], box[2], box[3]
	cx := (x1 + x2) / 2
	qy := (y2 - y1) / 4
	return [][2]float64{
		{cx, y1},
		{x2, y1 + qy},
		{x2, y2 - qy},
		{cx, y2},
		{x1, y2 - qy},
		{x1, y1 + qy},
	}
}

func (s *server) fail(w http.ResponseWriter, code int, msg string) {
	s.log.Warn().Int("code", code).Msg(msg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": msg})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
