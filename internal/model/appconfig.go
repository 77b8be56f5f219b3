package model

// AppConfig holds application-wide preferences.
type AppConfig struct {
	// Engine connection
	EngineURL string `json:"engine_url"`

	// Board editing defaults
	ObstacleRadius float64 `json:"obstacle_radius"`

	// Application preferences
	RecentBoards []string `json:"recent_boards"`
	Theme        string   `json:"theme"` // "light", "dark", "system"
}

// DefaultEngineURL is the evolve service address used when no configuration
// exists, matching the address the bundled evolved binary listens on.
const DefaultEngineURL = "http://localhost:8000"

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		EngineURL:      DefaultEngineURL,
		ObstacleRadius: DefaultObstacleRadius,
		RecentBoards:   []string{},
		Theme:          "system",
	}
}
