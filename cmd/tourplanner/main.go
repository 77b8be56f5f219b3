// TourPlanner — Obstacle-Aware Tour Optimizer
//
// A cross-platform desktop application for planning the shortest
// round trip through a set of cities while steering clear of
// circular obstacles. Route search runs on the evolve engine
// service (see cmd/evolved).
//
// Build:
//   go build -o tourplanner ./cmd/tourplanner
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o tourplanner.exe ./cmd/tourplanner
//   GOOS=darwin  GOARCH=amd64 go build -o tourplanner-darwin ./cmd/tourplanner
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"tourplanner/internal/ui"
)

func main() {
	application := app.NewWithID("com.tourplanner.app")
	window := application.NewWindow("TourPlanner — Obstacle-Aware Tour Optimizer")

	appUI := ui.NewApp(application, window)
	appUI.SetupMenus() // Setup the native menu bar
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1000, 700))
	window.CenterOnScreen()
	window.ShowAndRun()
}
