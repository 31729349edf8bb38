package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// GameConfig is a named rule preset for creating sessions
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DrawCount   int    `json:"draw_count"`
	Color       string `json:"color,omitempty"`
	Messages    struct {
		Welcome string `json:"welcome"`
		Victory string `json:"victory"`
		Lost    string `json:"lost"`
	} `json:"messages"`
}

// Card back colors offered at session creation
var CardColors = []string{"red", "green", "blue", "black"}

// DefaultGameConfig returns the built-in draw-one preset
func DefaultGameConfig() *GameConfig {
	config := &GameConfig{
		Name:        "draw1",
		Description: "Classic Klondike, turning one card at a time",
		DrawCount:   1,
		Color:       "red",
	}
	config.Messages.Welcome = "New game dealt. Good luck!"
	config.Messages.Victory = "All four foundations complete. You win!"
	config.Messages.Lost = "No productive moves remain."
	return config
}

// ValidateGameConfig validates a rule preset
func ValidateGameConfig(config *GameConfig) error {
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}
	if !ValidDrawCount(config.DrawCount) {
		return fmt.Errorf("config validation: draw_count must be 1 or 3, got %d", config.DrawCount)
	}
	if config.Color != "" && !ValidColor(config.Color) {
		return fmt.Errorf("config validation: color must be one of %s, got '%s'",
			strings.Join(CardColors, ", "), config.Color)
	}
	return nil
}

// ValidColor reports whether c names a card back color
func ValidColor(c string) bool {
	c = strings.ToLower(c)
	for _, known := range CardColors {
		if c == known {
			return true
		}
	}
	return false
}

// ParseDrawOption converts a draw option as sent by clients ("Draw 1",
// "Draw 3", "3") into a draw count. Anything unrecognized means 1.
func ParseDrawOption(option string) int {
	option = strings.TrimSpace(strings.ToLower(option))
	option = strings.TrimPrefix(option, "draw")
	n, err := strconv.Atoi(strings.TrimSpace(option))
	if err != nil || !ValidDrawCount(n) {
		return 1
	}
	return n
}

// LoadGameConfig loads a rule preset from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// CONFIG_DIR replaces a leading configs/
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
