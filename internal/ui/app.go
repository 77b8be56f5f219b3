package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"tourplanner/internal/control"
	"tourplanner/internal/evolve"
	"tourplanner/internal/export"
	cityimporter "tourplanner/internal/importer"
	"tourplanner/internal/model"
	"tourplanner/internal/project"
	"tourplanner/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	fyneApp    fyne.App
	window     fyne.Window
	board      *model.Board
	controller *control.Controller
	config     model.AppConfig

	mode model.PlacementMode

	// UI references for dynamic updates
	boardCanvas  *widgets.BoardCanvas
	statusLabel  *widget.Label
	startStopBtn *widget.Button
	modeRadio    *widget.RadioGroup
}

func NewApp(fyneApp fyne.App, window fyne.Window) *App {
	config, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		config = model.DefaultAppConfig()
	}

	plannerTheme := NewPlannerTheme()
	switch config.Theme {
	case "light":
		plannerTheme.SetVariant(theme.VariantLight)
	case "dark":
		plannerTheme.SetVariant(theme.VariantDark)
	}
	fyneApp.Settings().SetTheme(plannerTheme)

	board := model.NewBoard()
	client := evolve.NewClient(config.EngineURL)

	a := &App{
		fyneApp:    fyneApp,
		window:     window,
		board:      board,
		controller: control.NewController(board, client),
		config:     config,
		mode:       model.ModeCity,
	}

	a.wireController()
	return a
}

// wireController attaches controller callbacks. Round and stop
// notifications arrive on the run goroutine; hop back onto the Fyne
// event loop before touching widgets.
func (a *App) wireController() {
	a.controller.OnRound = func(snap model.Snapshot) {
		fyne.Do(func() {
			a.boardCanvas.SetSnapshot(snap)
			a.refreshStatus()
		})
	}
	a.controller.OnStop = func(reason control.StopReason, err error) {
		fyne.Do(func() {
			a.handleRunStopped(reason, err)
		})
	}
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Board", func() {
			a.clearBoard()
		}),
		fyne.NewMenuItem("Open Board...", func() {
			a.loadBoard()
		}),
		a.buildRecentMenuItem(),
		fyne.NewMenuItem("Save Board...", func() {
			a.saveBoard()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Cities from CSV...", func() {
			a.importCSV()
		}),
		fyne.NewMenuItem("Import Cities from Excel...", func() {
			a.importExcel()
		}),
		fyne.NewMenuItem("Import Obstacles from DXF...", func() {
			a.importDXF()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Tour as PDF...", func() {
			a.exportPDF()
		}),
		fyne.NewMenuItem("Export Tour as DXF...", func() {
			a.exportDXF()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Clear Board", func() {
			a.clearBoard()
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Start Optimization", func() {
			a.startRun()
		}),
		fyne.NewMenuItem("Stop Optimization", func() {
			a.stopRun()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Engine Settings...", func() {
			a.showEngineSettingsDialog()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

// buildRecentMenuItem lists boards opened or saved in previous sessions.
func (a *App) buildRecentMenuItem() *fyne.MenuItem {
	item := fyne.NewMenuItem("Open Recent", nil)
	if len(a.config.RecentBoards) == 0 {
		item.Disabled = true
		return item
	}
	var children []*fyne.MenuItem
	for _, p := range a.config.RecentBoards {
		path := p
		children = append(children, fyne.NewMenuItem(filepath.Base(path), func() {
			a.openBoardPath(path)
		}))
	}
	item.ChildMenu = fyne.NewMenu("", children...)
	return item
}

func (a *App) rememberRecent(path string) {
	recents := []string{path}
	for _, p := range a.config.RecentBoards {
		if p != path && len(recents) < 5 {
			recents = append(recents, p)
		}
	}
	a.config.RecentBoards = recents
	_ = project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About TourPlanner",
		"TourPlanner — Obstacle-Aware Tour Optimizer\n\n"+
			"Place cities and obstacles on the board, then let the\n"+
			"evolve engine search for the shortest obstacle-free tour.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

func (a *App) showEngineSettingsDialog() {
	if a.controller.State() != control.StateIdle {
		dialog.ShowInformation("Run in progress", "Stop the optimization before changing engine settings.", a.window)
		return
	}

	urlEntry := widget.NewEntry()
	urlEntry.SetText(a.config.EngineURL)

	radiusEntry := widget.NewEntry()
	radiusEntry.SetText(fmt.Sprintf("%.0f", a.config.ObstacleRadius))

	form := dialog.NewForm("Engine Settings", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Engine URL", urlEntry),
			widget.NewFormItem("Obstacle radius", radiusEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			if urlEntry.Text != "" {
				a.config.EngineURL = urlEntry.Text
			}
			var radius float64
			if _, err := fmt.Sscanf(radiusEntry.Text, "%f", &radius); err == nil && radius > 0 {
				a.config.ObstacleRadius = radius
			}
			a.controller = control.NewController(a.board, evolve.NewClient(a.config.EngineURL))
			a.wireController()
			if err := project.SaveAppConfig(project.DefaultConfigPath(), a.config); err != nil {
				dialog.ShowError(err, a.window)
			}
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 200))
	form.Show()
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.boardCanvas = widgets.NewBoardCanvas()
	a.boardCanvas.OnTapped = a.handleBoardTap

	a.statusLabel = widget.NewLabel("")
	a.refreshStatus()

	return container.NewBorder(
		a.buildToolbar(),
		container.NewHBox(a.statusLabel),
		nil, nil,
		container.NewCenter(a.boardCanvas),
	)
}

func (a *App) buildToolbar() fyne.CanvasObject {
	a.modeRadio = widget.NewRadioGroup([]string{"Place Cities", "Place Obstacles"}, func(selected string) {
		if selected == "Place Obstacles" {
			a.mode = model.ModeObstacle
		} else {
			a.mode = model.ModeCity
		}
	})
	a.modeRadio.SetSelected("Place Cities")
	a.modeRadio.Horizontal = true

	a.startStopBtn = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
		if a.controller.State() == control.StateIdle {
			a.startRun()
		} else {
			a.stopRun()
		}
	})

	clearBtn := newIconButtonWithTooltip(theme.DeleteIcon(), "Clear the board", func() {
		a.clearBoard()
	})
	pdfBtn := newIconButtonWithTooltip(theme.DocumentIcon(), "Export tour as PDF", func() {
		a.exportPDF()
	})

	return container.NewHBox(
		a.modeRadio,
		widget.NewSeparator(),
		a.startStopBtn,
		layout.NewSpacer(),
		pdfBtn,
		clearBtn,
	)
}

func (a *App) refreshStatus() {
	snap := a.board.Snapshot()
	state := a.controller.State()

	parts := []string{
		fmt.Sprintf("Cities: %d", len(snap.Cities)),
		fmt.Sprintf("Obstacles: %d", len(snap.Obstacles)),
	}
	if len(snap.BestRoute) > 0 {
		parts = append(parts,
			fmt.Sprintf("Best distance: %.2f", snap.BestDistance),
			fmt.Sprintf("Generation: %d", snap.Generation),
			fmt.Sprintf("Rounds: %d", a.controller.Rounds()),
		)
	}
	parts = append(parts, fmt.Sprintf("State: %s", state))

	a.statusLabel.SetText(strings.Join(parts, "   |   "))
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) handleBoardTap(x, y float64) {
	if a.controller.State() != control.StateIdle {
		return
	}
	switch a.mode {
	case model.ModeObstacle:
		a.board.AddObstacle(x, y, a.config.ObstacleRadius)
	default:
		a.board.AddCity(x, y)
	}
	a.boardCanvas.SetSnapshot(a.board.Snapshot())
	a.refreshStatus()
}

func (a *App) startRun() {
	if err := a.controller.Start(context.Background()); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.startStopBtn.SetText("Stop")
	a.startStopBtn.SetIcon(theme.MediaStopIcon())
	a.modeRadio.Disable()
	a.refreshStatus()
}

func (a *App) stopRun() {
	a.controller.Stop()
	a.refreshStatus()
}

func (a *App) handleRunStopped(reason control.StopReason, err error) {
	a.startStopBtn.SetText("Start")
	a.startStopBtn.SetIcon(theme.MediaPlayIcon())
	a.modeRadio.Enable()
	a.boardCanvas.SetSnapshot(a.board.Snapshot())
	a.refreshStatus()

	switch reason {
	case control.ReasonConverged:
		dialog.ShowInformation("Converged",
			fmt.Sprintf("No improvement in the last %d generations.\nBest distance: %.2f",
				control.Patience*control.RoundSize, a.board.Snapshot().BestDistance),
			a.window)
	case control.ReasonFailed:
		dialog.ShowError(err, a.window)
	}
}

func (a *App) clearBoard() {
	if a.controller.State() != control.StateIdle {
		dialog.ShowInformation("Run in progress", "Stop the optimization before clearing the board.", a.window)
		return
	}
	a.board.Clear()
	a.boardCanvas.SetSnapshot(a.board.Snapshot())
	a.refreshStatus()
}

func (a *App) saveBoard() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := project.SaveBoard(path, a.board.Snapshot()); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.rememberRecent(path)
	}, a.window)
	d.SetFileName("board.tour")
	d.Show()
}

func (a *App) loadBoard() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.openBoardPath(reader.URI().Path())
	}, a.window)
	d.Show()
}

func (a *App) openBoardPath(path string) {
	if a.controller.State() != control.StateIdle {
		dialog.ShowInformation("Run in progress", "Stop the optimization before loading a board.", a.window)
		return
	}
	file, err := project.LoadBoard(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.board.Restore(file.Cities, file.Obstacles)
	a.rememberRecent(path)
	a.boardCanvas.SetSnapshot(a.board.Snapshot())
	a.refreshStatus()
}

func (a *App) exportPDF() {
	snap := a.board.Snapshot()
	if len(snap.Cities) == 0 {
		dialog.ShowInformation("Nothing to export", "Place at least one city first.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := export.ExportPDF(path, snap); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Tour report saved to %s", path), a.window)
		}
	}, a.window)
	d.SetFileName("tour.pdf")
	d.Show()
}

func (a *App) exportDXF() {
	snap := a.board.Snapshot()
	if len(snap.Cities) == 0 {
		dialog.ShowInformation("Nothing to export", "Place at least one city first.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := export.ExportDXF(path, snap); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Tour drawing saved to %s", path), a.window)
		}
	}, a.window)
	d.SetFileName("tour.dxf")
	d.Show()
}

// ─── Import Functions ───────────────────────────────────────

func (a *App) importCSV() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := cityimporter.ImportCSV(reader.URI().Path())
		a.handleCityImport(result)
	}, a.window)
}

func (a *App) importExcel() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := cityimporter.ImportExcel(reader.URI().Path())
		a.handleCityImport(result)
	}, a.window)
}

func (a *App) importDXF() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := cityimporter.ImportDXF(reader.URI().Path())
		if len(result.Errors) > 0 {
			dialog.ShowError(fmt.Errorf("%s", strings.Join(result.Errors, "\n")), a.window)
			return
		}
		if !a.board.AddObstacles(result.Obstacles) {
			dialog.ShowInformation("Run in progress", "Stop the optimization before importing.", a.window)
			return
		}
		a.boardCanvas.SetSnapshot(a.board.Snapshot())
		a.refreshStatus()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Imported %d obstacles.", len(result.Obstacles)), a.window)
	}, a.window)
}

func (a *App) handleCityImport(result cityimporter.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}

	if len(result.Cities) == 0 {
		return
	}
	if !a.board.SetCities(result.Cities) {
		dialog.ShowInformation("Run in progress", "Stop the optimization before importing.", a.window)
		return
	}
	a.boardCanvas.SetSnapshot(a.board.Snapshot())
	a.refreshStatus()

	msg := fmt.Sprintf("Successfully imported %d cities.", len(result.Cities))
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}
