package export

import (
	"fmt"

	"github.com/yofu/dxf"

	"tourplanner/internal/model"
)

// dxfCityRadius is the marker size for cities in exported drawings.
const dxfCityRadius = 2.0

// ExportDXF writes the board to a DXF drawing: obstacles and city markers
// as CIRCLE entities and the best tour as a closed chain of LINE entities.
func ExportDXF(path string, snap model.Snapshot) error {
	if len(snap.Cities) == 0 {
		return fmt.Errorf("no cities to export")
	}

	d := dxf.NewDrawing()

	for _, obs := range snap.Obstacles {
		if _, err := d.Circle(obs.X, obs.Y, 0, obs.Radius); err != nil {
			return fmt.Errorf("failed to write obstacle: %w", err)
		}
	}

	if len(snap.BestRoute) >= 2 {
		n := len(snap.BestRoute)
		for i := 0; i < n; i++ {
			from := snap.Cities[snap.BestRoute[i]]
			to := snap.Cities[snap.BestRoute[(i+1)%n]]
			if _, err := d.Line(from.X, from.Y, 0, to.X, to.Y, 0); err != nil {
				return fmt.Errorf("failed to write tour leg: %w", err)
			}
		}
	}

	for _, city := range snap.Cities {
		if _, err := d.Circle(city.X, city.Y, 0, dxfCityRadius); err != nil {
			return fmt.Errorf("failed to write city marker: %w", err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF file: %w", err)
	}
	return nil
}
