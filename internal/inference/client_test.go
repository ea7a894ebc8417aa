package inference

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vision-scout/internal/frame"
)

func encoded() frame.EncodedFrame {
	return frame.EncodedFrame{Data: []byte{0xff, 0xd8, 0xff, 0xd9}, CapturedAt: time.Now()}
}

func TestAnalyzeDetect(t *testing.T) {
	var gotPath, gotConfidence, gotClasses string
	var gotImageLen int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		gotConfidence = r.FormValue("confidence")
		gotClasses = r.FormValue("classes")
		file, _, err := r.FormFile("image")
		if err != nil {
			t.Errorf("FormFile: %v", err)
		} else {
			buf := make([]byte, 16)
			n, _ := file.Read(buf)
			gotImageLen = n
			file.Close()
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "success",
			"count": 1,
			"inference_time_ms": 42.5,
			"detections": [
				{"class_name": "person", "confidence": 0.91, "bbox": [10, 20, 110, 220]}
			],
			"image_metadata": {"width": 640, "height": 480}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	res, err := c.Analyze(context.Background(), encoded(), Options{
		Mode:          ModeDetect,
		MinConfidence: 0.5,
		Classes:       []string{"person", "dog"},
	})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if gotPath != "/api/detect" {
		t.Errorf("path = %q, want /api/detect", gotPath)
	}
	if gotConfidence != "0.50" {
		t.Errorf("confidence field = %q, want 0.50", gotConfidence)
	}
	if gotClasses != "person,dog" {
		t.Errorf("classes field = %q, want person,dog", gotClasses)
	}
	if gotImageLen != 4 {
		t.Errorf("image payload length = %d, want 4", gotImageLen)
	}

	if res.Count != 1 || len(res.Detections) != 1 {
		t.Fatalf("result count = %d, detections = %d", res.Count, len(res.Detections))
	}
	d := res.Detections[0]
	if d.ClassName != "person" || d.Confidence != 0.91 {
		t.Errorf("detection = %+v", d)
	}
	if !d.Valid() {
		t.Error("detection should be valid")
	}
	if res.ImageMeta.Width != 640 || res.ImageMeta.Height != 480 {
		t.Errorf("image metadata = %+v", res.ImageMeta)
	}
	if res.InferenceTimeMS != 42.5 {
		t.Errorf("inference time = %v, want 42.5", res.InferenceTimeMS)
	}
	if res.Mode != ModeDetect {
		t.Errorf("mode = %q", res.Mode)
	}
}

func TestAnalyzeSegment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/segment" {
			t.Errorf("path = %q, want /api/segment", r.URL.Path)
		}
		w.Write([]byte(`{
			"status": "success",
			"count": 1,
			"inference_time_ms": 60,
			"segments": [
				{"class_name": "cat", "confidence": 0.8, "bbox": [0, 0, 10, 10],
				 "mask": [[0,0],[10,0],[10,10],[0,10]]}
			],
			"image_metadata": {"width": 320, "height": 240}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	res, err := c.Analyze(context.Background(), encoded(), Options{Mode: ModeSegment})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if len(res.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(res.Segments))
	}
	if pts := res.Segments[0].Polygon(); len(pts) != 4 || pts[2].X != 10 {
		t.Errorf("polygon = %v", pts)
	}
}

func TestAnalyzeOmitsEmptyClassList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		if _, ok := r.MultipartForm.Value["classes"]; ok {
			t.Error("classes field sent despite empty allow-list")
		}
		w.Write([]byte(`{"status":"success","count":0,"inference_time_ms":1,"detections":[],"image_metadata":{"width":1,"height":1}}`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, 0, nil).Analyze(context.Background(), encoded(), Options{}); err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
}

func TestAnalyzeFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","count":0,"inference_time_ms":0,"image_metadata":{"width":1,"height":1}}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, 0, nil).Analyze(context.Background(), encoded(), Options{Mode: ModeDetect})
	if !errors.Is(err, ErrBadStatus) {
		t.Errorf("error = %v, want ErrBadStatus", err)
	}
	if len(res.Detections) != 0 || len(res.Segments) != 0 {
		t.Error("failed round trip must yield an empty result set")
	}
}

func TestAnalyzeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, 0, nil).Analyze(context.Background(), encoded(), Options{}); !errors.Is(err, ErrBadStatus) {
		t.Errorf("error = %v, want ErrBadStatus", err)
	}
}

func TestAnalyzeMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "suc`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, 0, nil).Analyze(context.Background(), encoded(), Options{}); err == nil {
		t.Error("malformed body should yield an error")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	if err := NewClient(srv.URL, 0, nil).Health(context.Background()); err != nil {
		t.Errorf("Health() error: %v", err)
	}

	if err := NewClient(srv.URL+"/missing", 0, nil).Health(context.Background()); !errors.Is(err, ErrBadStatus) {
		t.Errorf("Health() on 404 = %v, want ErrBadStatus", err)
	}
}

func TestDetectionValid(t *testing.T) {
	tests := []struct {
		name string
		bbox []float64
		want bool
	}{
		{"well-formed", []float64{0, 0, 10, 10}, true},
		{"degenerate point", []float64{5, 5, 5, 5}, true},
		{"inverted x", []float64{10, 0, 0, 10}, false},
		{"inverted y", []float64{0, 10, 10, 0}, false},
		{"wrong arity", []float64{0, 0, 10}, false},
		{"nil", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := Detection{ClassName: "x", Confidence: 0.5, BBox: tc.bbox}
			if got := d.Valid(); got != tc.want {
				t.Errorf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}
