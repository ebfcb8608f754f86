package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/listinglab/listinglab/internal/fetch"
	"github.com/listinglab/listinglab/internal/imaging"
	"github.com/listinglab/listinglab/internal/product"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 40, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestPipeline(t *testing.T, root string) *Pipeline {
	t.Helper()

	store, err := imaging.NewStorage(root)
	if err != nil {
		t.Fatal(err)
	}
	return New(
		fetch.New(0, "", testLogger()),
		imaging.NewNormalizer(800, 800, 85),
		store,
		testLogger(),
	)
}

func TestProcessRow(t *testing.T) {
	pngBytes := testPNG(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(pngBytes)
	}))
	defer server.Close()

	root := t.TempDir()
	p := newTestPipeline(t, root)

	row := product.Row{
		Title:     "Blue Cotton T-Shirt",
		ImageURLs: []string{server.URL + "/x.jpg", server.URL + "/y.jpg"},
	}

	report := p.ProcessRow(context.Background(), row)

	if report.Skipped {
		t.Fatalf("row skipped: %s", report.SkipReason)
	}
	if want := filepath.Join(root, "blue-cotton-t-shirt"); report.Dir != want {
		t.Errorf("Dir = %q, want %q", report.Dir, want)
	}
	if len(report.Images) != 2 {
		t.Fatalf("got %d image results, want 2", len(report.Images))
	}

	for i, img := range report.Images {
		if !img.OK() {
			t.Errorf("image %d failed: %v", i+1, img.Err)
			continue
		}
		if img.BlurHash == "" {
			t.Errorf("image %d missing blurhash", i+1)
		}
	}

	// Files are 1.webp, 2.webp in URL order, both exactly 800x800.
	for i := 1; i <= 2; i++ {
		path := filepath.Join(report.Dir, filepath.Base(report.Images[i-1].Path))
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("missing output %d.webp: %v", i, err)
		}
		decoded, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %d.webp: %v", i, err)
		}
		if b := decoded.Bounds(); b.Dx() != 800 || b.Dy() != 800 {
			t.Errorf("%d.webp dimensions = %dx%d, want 800x800", i, b.Dx(), b.Dy())
		}
	}
}

func TestProcessRow_FailureIsolation(t *testing.T) {
	pngBytes := testPNG(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(pngBytes)
	}))
	defer server.Close()

	p := newTestPipeline(t, t.TempDir())

	row := product.Row{
		Title:     "Partial Product",
		ImageURLs: []string{server.URL + "/bad.jpg", server.URL + "/good.jpg"},
	}

	report := p.ProcessRow(context.Background(), row)

	if len(report.Images) != 2 {
		t.Fatalf("got %d image results, want 2", len(report.Images))
	}
	if report.Images[0].OK() {
		t.Error("first image should have failed with 404")
	}
	if !report.Images[1].OK() {
		t.Errorf("second image should have succeeded: %v", report.Images[1].Err)
	}

	// The failed position leaves a gap; the successful one keeps its index.
	if _, err := os.Stat(filepath.Join(report.Dir, "1.webp")); !os.IsNotExist(err) {
		t.Error("1.webp should not exist for the failed URL")
	}
	if _, err := os.Stat(filepath.Join(report.Dir, "2.webp")); err != nil {
		t.Errorf("2.webp missing: %v", err)
	}
}

func TestProcessRow_SkipsEmptyURLList(t *testing.T) {
	root := t.TempDir()
	p := newTestPipeline(t, root)

	report := p.ProcessRow(context.Background(), product.Row{Title: "No Images Here"})

	if !report.Skipped {
		t.Fatal("expected skip for row without URLs")
	}

	// No folder is created for a skipped row.
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output root not empty after skip: %v", entries)
	}
}

func TestRun_Summary(t *testing.T) {
	pngBytes := testPNG(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad.jpg" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(pngBytes)
	}))
	defer server.Close()

	p := newTestPipeline(t, t.TempDir())

	rows := []product.Row{
		{Title: "Full Success", ImageURLs: []string{server.URL + "/a.jpg", server.URL + "/b.jpg"}},
		{Title: "Half Success", ImageURLs: []string{server.URL + "/bad.jpg", server.URL + "/c.jpg"}},
		{Title: "Skipped Row"},
	}

	summary := p.Run(context.Background(), rows)

	if summary.Rows != 3 {
		t.Errorf("Rows = %d, want 3", summary.Rows)
	}
	if summary.Saved != 3 {
		t.Errorf("Saved = %d, want 3", summary.Saved)
	}
	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}
	if summary.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", summary.Skipped)
	}
}

func TestRun_CollidingSlugsGetNumberedFolders(t *testing.T) {
	pngBytes := testPNG(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(pngBytes)
	}))
	defer server.Close()

	root := t.TempDir()
	p := newTestPipeline(t, root)

	rows := []product.Row{
		{Title: "Same Name", ImageURLs: []string{server.URL + "/1.jpg"}},
		{Title: "Same Name", ImageURLs: []string{server.URL + "/2.jpg"}},
	}
	p.Run(context.Background(), rows)

	if _, err := os.Stat(filepath.Join(root, "same-name", "1.webp")); err != nil {
		t.Errorf("first folder missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "same-name-2", "1.webp")); err != nil {
		t.Errorf("collision folder missing: %v", err)
	}
}
