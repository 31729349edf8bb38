// Command validate checks rule presets and saved sessions on disk. For
// presets it checks:
//   - JSON structure and required fields
//   - draw_count of 1 or 3 and a known card color
//   - Required message keys
//
// For saved sessions it checks:
//   - the live layout and every undo/redo snapshot hold 52 distinct cards
//   - draw_count is 1 or 3 and status is a known value
//   - the move log is numbered in order and its layouts hold 52 cards
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/session"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) note(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

func newResult(filePath string) ValidationResult {
	return ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}
}

// validateConfig loads and validates a single preset JSON file.
func validateConfig(filePath string) ValidationResult {
	result := newResult(filePath)

	// LoadGameConfig also runs the field checks
	config, err := engine.LoadGameConfig(filePath)
	if err != nil {
		result.fail("Failed to load config: %v", err)
		return result
	}

	messages := map[string]string{
		"welcome": config.Messages.Welcome,
		"victory": config.Messages.Victory,
		"lost":    config.Messages.Lost,
	}
	for _, key := range []string{"welcome", "victory", "lost"} {
		if messages[key] == "" {
			result.fail("Missing message: %s", key)
		}
	}

	if result.Valid {
		result.note("Draw %d, color %q", config.DrawCount, config.Color)
	}
	return result
}

// validateSession reads a saved session and checks every stored layout.
func validateSession(filePath string) ValidationResult {
	result := newResult(filePath)

	data, err := session.ReadSessionFile(filePath)
	if err != nil {
		result.fail("Failed to read session: %v", err)
		return result
	}

	if !engine.ValidDrawCount(data.DrawCount) {
		result.fail("draw_count must be 1 or 3, got %d", data.DrawCount)
	}

	switch data.Status {
	case engine.StatusActive, engine.StatusWon, engine.StatusLost:
	default:
		result.fail("Unknown status %q", data.Status)
	}

	if err := data.State.Validate(); err != nil {
		result.fail("Live state: %v", err)
	}
	for i, s := range data.Undo {
		if err := s.Validate(); err != nil {
			result.fail("Undo snapshot %d: %v", i, err)
		}
	}
	for i, s := range data.Redo {
		if err := s.Validate(); err != nil {
			result.fail("Redo snapshot %d: %v", i, err)
		}
	}

	for i, entry := range data.MoveLog {
		if entry.MoveNumber != i+1 {
			result.fail("Move log entry %d is numbered %d", i+1, entry.MoveNumber)
			break
		}
		if entry.State != nil {
			if err := entry.State.Validate(); err != nil {
				result.fail("Move %d layout: %v", entry.MoveNumber, err)
			}
		}
	}

	if result.Valid {
		result.note("%d moves, %d cards remaining, status %s", data.Moves, data.State.CardsRemaining(), data.Status)
		result.note("History: %d undo, %d redo", len(data.Undo), len(data.Redo))
	}
	return result
}

// validateDir runs check over every *.json file in dir and prints a report.
// It returns false if any file is invalid.
func validateDir(dir string, check func(string) ValidationResult) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, err
	}

	allValid := true
	for _, file := range files {
		result := check(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}
	return allValid, nil
}

// main validates the presets in -configs and, when set, the saved sessions
// in -sessions, exiting with non-zero status if anything is invalid.
func main() {
	configDir := flag.String("configs", "../configs", "Directory of rule presets")
	sessionsDir := flag.String("sessions", "", "Directory of saved sessions (optional)")
	flag.Parse()

	allValid, err := validateDir(*configDir, validateConfig)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	if *sessionsDir != "" {
		sessionsValid, err := validateDir(*sessionsDir, validateSession)
		if err != nil {
			fmt.Printf("Error finding session files: %v\n", err)
			os.Exit(1)
		}
		allValid = allValid && sessionsValid
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All files are valid!")
	} else {
		fmt.Println("❌ Some files have errors")
		os.Exit(1)
	}
}
