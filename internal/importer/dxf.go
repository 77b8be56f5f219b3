package importer

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"tourplanner/internal/model"
)

// ImportDXF imports obstacles from a DXF file. Each CIRCLE entity becomes
// an obstacle; other entity types are skipped with a warning so the user
// knows what the drawing contained.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	skipped := 0
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Circle:
			if e.Radius <= 0 {
				result.Warnings = append(result.Warnings, "Skipped circle with non-positive radius")
				continue
			}
			result.Obstacles = append(result.Obstacles,
				model.NewObstacle(e.Center[0], e.Center[1], e.Radius))
		default:
			skipped++
		}
	}

	if skipped > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Skipped %d non-circle entities", skipped))
	}
	if len(result.Obstacles) == 0 {
		result.Errors = append(result.Errors, "No circles found in DXF file")
	}

	return result
}
