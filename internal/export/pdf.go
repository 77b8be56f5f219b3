// Package export renders computed tours to PDF reports and DXF drawings.
package export

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"tourplanner/internal/geometry"
	"tourplanner/internal/model"
	"tourplanner/internal/project"
)

// Page geometry constants (A4 landscape, mm)
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 8.0
	drawAreaTop  = marginTop + headerHeight + 10.0

	cityMarkerRadius = 1.2
	qrSize           = 40.0
)

// ExportPDF generates a PDF report for the board: a drawing of obstacles,
// the best tour and city markers, a per-leg breakdown, and a QR code
// embedding the board file so the report can be re-imported.
func ExportPDF(path string, snap model.Snapshot) error {
	if len(snap.Cities) == 0 {
		return fmt.Errorf("no cities to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderBoardPage(pdf, snap)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, snap); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// renderBoardPage draws the board and tour on the current PDF page.
func renderBoardPage(pdf *fpdf.Fpdf, snap model.Snapshot) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Tour Report", "", 0, "L", false, 0, "")

	stats := geometry.ComputeTourStats(snap.BestRoute, snap.Cities, snap.Obstacles)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	line := fmt.Sprintf("Cities: %d | Obstacles: %d | Tour length: %.1f | Blocked legs: %d | Generation: %d",
		len(snap.Cities), len(snap.Obstacles), stats.TotalLength, stats.BlockedLegs, snap.Generation)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, line, "", 0, "L", false, 0, "")

	minX, minY, maxX, maxY := boardBounds(snap)
	boardW := maxX - minX
	boardH := maxY - minY
	if boardW <= 0 {
		boardW = 1
	}
	if boardH <= 0 {
		boardH = 1
	}

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom
	scale := math.Min(drawWidth/boardW, drawHeight/boardH)

	canvasW := boardW * scale
	canvasH := boardH * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	toPage := func(x, y float64) (float64, float64) {
		return offsetX + (x-minX)*scale, offsetY + (y-minY)*scale
	}

	// Board frame
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "D")

	// Obstacles as filled circles
	pdf.SetFillColor(244, 67, 54)
	pdf.SetDrawColor(180, 30, 30)
	pdf.SetLineWidth(0.2)
	for _, obs := range snap.Obstacles {
		cx, cy := toPage(obs.X, obs.Y)
		pdf.Circle(cx, cy, obs.Radius*scale, "FD")
	}

	// Best tour as a closed polyline
	if len(snap.BestRoute) >= 2 {
		pdf.SetDrawColor(33, 150, 243)
		pdf.SetLineWidth(0.5)
		n := len(snap.BestRoute)
		for i := 0; i < n; i++ {
			from := snap.Cities[snap.BestRoute[i]]
			to := snap.Cities[snap.BestRoute[(i+1)%n]]
			x1, y1 := toPage(from.X, from.Y)
			x2, y2 := toPage(to.X, to.Y)
			pdf.Line(x1, y1, x2, y2)
		}
	}

	// City markers on top
	pdf.SetFillColor(30, 30, 30)
	pdf.SetDrawColor(30, 30, 30)
	for i, city := range snap.Cities {
		cx, cy := toPage(city.X, city.Y)
		pdf.Circle(cx, cy, cityMarkerRadius, "FD")
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetXY(cx+1.5, cy-2)
		pdf.CellFormat(8, 4, fmt.Sprintf("%d", i), "", 0, "L", false, 0, "")
	}
}

// renderSummaryPage lists per-leg statistics and embeds the board QR code.
func renderSummaryPage(pdf *fpdf.Fpdf, snap model.Snapshot) error {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Tour Legs", "", 0, "L", false, 0, "")

	stats := geometry.ComputeTourStats(snap.BestRoute, snap.Cities, snap.Obstacles)

	y := marginTop + headerHeight + 5
	pdf.SetFont("Helvetica", "", 9)
	for _, seg := range stats.Segments {
		status := ""
		if seg.Blocked {
			status = "  (crosses obstacle)"
		}
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(120, 4.5, fmt.Sprintf("City %d -> City %d: %.1f%s", seg.From, seg.To, seg.Length, status),
			"", 0, "L", false, 0, "")
		y += 4.5
		if y > pageHeight-marginBottom-10 {
			break
		}
	}

	if len(stats.Segments) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetXY(marginLeft, y+3)
		pdf.CellFormat(120, 5, fmt.Sprintf("Total: %.1f over %d legs", stats.TotalLength, len(stats.Segments)),
			"", 0, "L", false, 0, "")
	}

	// QR code with the board file for re-import
	boardJSON, err := project.EncodeBoard(snap)
	if err != nil {
		return fmt.Errorf("failed to encode board for QR: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(boardJSON), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	qrX := pageWidth - marginRight - qrSize
	qrY := pageHeight - marginBottom - qrSize
	pdf.RegisterImageOptionsReader("board_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions("board_qr", qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(qrX, qrY+qrSize+1)
	pdf.CellFormat(qrSize, 3.5, "Scan to restore this board", "", 0, "C", false, 0, "")
	return nil
}

// boardBounds returns the bounding box of all cities and obstacle extents.
func boardBounds(snap model.Snapshot) (minX, minY, maxX, maxY float64) {
	first := true
	extend := func(x, y float64) {
		if first {
			minX, minY, maxX, maxY = x, y, x, y
			first = false
			return
		}
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	for _, c := range snap.Cities {
		extend(c.X, c.Y)
	}
	for _, o := range snap.Obstacles {
		extend(o.X-o.Radius, o.Y-o.Radius)
		extend(o.X+o.Radius, o.Y+o.Radius)
	}
	return minX, minY, maxX, maxY
}
