package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tourplanner/internal/model"
)

// BoardFileVersion identifies the board file format.
const BoardFileVersion = "1.0.0"

// BoardFile is the on-disk representation of a board. Only user-placed
// entities are persisted; population, route and generation counter are
// transient search state and always start empty after a load.
type BoardFile struct {
	Version   string           `json:"version"`
	CreatedAt string           `json:"created_at"`
	Cities    []model.City     `json:"cities"`
	Obstacles []model.Obstacle `json:"obstacles"`
}

// SaveBoard writes the board's cities and obstacles to path as JSON,
// creating any missing parent directories.
func SaveBoard(path string, snap model.Snapshot) error {
	file := BoardFile{
		Version:   BoardFileVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Cities:    snap.Cities,
		Obstacles: snap.Obstacles,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create board directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write board file: %w", err)
	}
	return nil
}

// LoadBoard reads a board file and returns its entities.
func LoadBoard(path string) (BoardFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BoardFile{}, fmt.Errorf("failed to read board file: %w", err)
	}
	return DecodeBoard(data)
}

// DecodeBoard parses board-file JSON, for example from a report QR code.
func DecodeBoard(data []byte) (BoardFile, error) {
	var file BoardFile
	if err := json.Unmarshal(data, &file); err != nil {
		return BoardFile{}, fmt.Errorf("failed to parse board file: %w", err)
	}
	if file.Version == "" {
		return BoardFile{}, fmt.Errorf("invalid board file: missing version field")
	}
	if file.Cities == nil {
		file.Cities = []model.City{}
	}
	if file.Obstacles == nil {
		file.Obstacles = []model.Obstacle{}
	}
	return file, nil
}

// EncodeBoard renders a snapshot to board-file JSON without touching disk.
func EncodeBoard(snap model.Snapshot) ([]byte, error) {
	file := BoardFile{
		Version:   BoardFileVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Cities:    snap.Cities,
		Obstacles: snap.Obstacles,
	}
	return json.Marshal(file)
}
