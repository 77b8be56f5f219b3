package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tourplanner/internal/importer"
	"tourplanner/internal/model"
)

func exportSnapshot() model.Snapshot {
	return model.Snapshot{
		Cities: []model.City{
			{ID: "c0", X: 0, Y: 0},
			{ID: "c1", X: 200, Y: 0},
			{ID: "c2", X: 200, Y: 150},
			{ID: "c3", X: 0, Y: 150},
		},
		Obstacles: []model.Obstacle{
			{ID: "o0", X: 100, Y: 75, Radius: 30},
		},
		BestRoute:    model.Route{0, 1, 2, 3},
		BestDistance: 700,
		Generation:   180,
	}
}

func TestExportPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.pdf")

	if err := ExportPDF(path, exportSnapshot()); err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("exported PDF is empty")
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Error("exported file does not look like a PDF")
	}
}

func TestExportPDFWithoutRoute(t *testing.T) {
	snap := exportSnapshot()
	snap.BestRoute = nil
	snap.BestDistance = 0

	path := filepath.Join(t.TempDir(), "tour.pdf")
	if err := ExportPDF(path, snap); err != nil {
		t.Fatalf("export without a route should still work: %v", err)
	}
}

func TestExportPDFNoCities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.pdf")
	if err := ExportPDF(path, model.Snapshot{}); err == nil {
		t.Error("expected error for an empty board")
	}
}

func TestExportDXFRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.dxf")
	snap := exportSnapshot()

	if err := ExportDXF(path, snap); err != nil {
		t.Fatalf("ExportDXF: %v", err)
	}

	// The importer reads every circle back: obstacles plus city markers.
	result := importer.ImportDXF(path)
	if len(result.Errors) != 0 {
		t.Fatalf("reimport errors: %v", result.Errors)
	}
	wantCircles := len(snap.Obstacles) + len(snap.Cities)
	if len(result.Obstacles) != wantCircles {
		t.Errorf("expected %d circles back, got %d", wantCircles, len(result.Obstacles))
	}
}

func TestExportDXFNoCities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.dxf")
	if err := ExportDXF(path, model.Snapshot{}); err == nil {
		t.Error("expected error for an empty board")
	}
}
