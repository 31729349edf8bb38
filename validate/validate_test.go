package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/session"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeSession(t *testing.T, data session.PersistedSessionData) string {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return writeFile(t, data.ID+".json", string(raw))
}

func validSession() session.PersistedSessionData {
	state := engine.DealFrom(engine.OrderedDeck())
	after := state.Clone()
	after.Discard = append(after.Discard, after.Draw[len(after.Draw)-1])
	after.Draw = after.Draw[:len(after.Draw)-1]
	now := time.Now()
	return session.PersistedSessionData{
		ID:             "ab12",
		ConfigName:     "draw1",
		DrawCount:      1,
		CreatedAt:      now,
		LastAccessedAt: now,
		State:          state,
		Undo:           []engine.State{state.Clone()},
		Redo:           []engine.State{},
		Moves:          1,
		Status:         engine.StatusActive,
		Active:         true,
		MoveLog: []engine.MoveLogEntry{
			{ID: "ab12-1", Src: engine.Draw, Dst: engine.Discard, Result: engine.ResultContinue, MoveNumber: 1, Timestamp: now, State: &after},
		},
	}
}

func joinedErrors(r ValidationResult) string {
	return strings.Join(r.Errors, "\n")
}

const validConfig = `{
	"name": "Test Config",
	"description": "Test configuration",
	"draw_count": 3,
	"color": "green",
	"messages": {
		"welcome": "Welcome!",
		"victory": "Victory!",
		"lost": "Stuck!"
	}
}`

func TestValidateConfig_ValidConfig(t *testing.T) {
	result := validateConfig(writeFile(t, "test.json", validConfig))

	assert.True(t, result.Valid, joinedErrors(result))
	assert.Equal(t, "test.json", result.File)
	assert.Contains(t, joinedErrors(result), "Draw 3")
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"invalid json", `{"name": "broken",`, "Failed to load config"},
		{"bad draw count", strings.Replace(validConfig, `"draw_count": 3`, `"draw_count": 2`, 1), "draw_count must be 1 or 3"},
		{"bad color", strings.Replace(validConfig, `"green"`, `"purple"`, 1), "color must be one of"},
		{"missing name", strings.Replace(validConfig, `"Test Config"`, `""`, 1), "name is required"},
		{"missing message", strings.Replace(validConfig, `"Stuck!"`, `""`, 1), "Missing message: lost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateConfig(writeFile(t, "bad.json", tt.content))
			assert.False(t, result.Valid)
			assert.Contains(t, joinedErrors(result), tt.want)
		})
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig("/non/existent/file.json")
	assert.False(t, result.Valid)
	assert.Contains(t, joinedErrors(result), "Failed to load config")
}

func TestValidateConfig_RepoPresets(t *testing.T) {
	files, err := filepath.Glob("../configs/*.json")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		result := validateConfig(file)
		assert.True(t, result.Valid, "%s: %s", file, joinedErrors(result))
	}
}

func TestValidateSession_Valid(t *testing.T) {
	result := validateSession(writeSession(t, validSession()))

	assert.True(t, result.Valid, joinedErrors(result))
	assert.Contains(t, joinedErrors(result), "52 cards remaining")
	assert.Contains(t, joinedErrors(result), "1 undo, 0 redo")
}

func TestValidateSession_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*session.PersistedSessionData)
		want   string
	}{
		{
			name:   "duplicate card in live state",
			mutate: func(d *session.PersistedSessionData) { d.State.Draw[0] = d.State.Draw[1] },
			want:   "Live state",
		},
		{
			name: "missing card in undo snapshot",
			mutate: func(d *session.PersistedSessionData) {
				d.Undo[0].Draw = d.Undo[0].Draw[1:]
			},
			want: "Undo snapshot 0",
		},
		{
			name:   "bad draw count",
			mutate: func(d *session.PersistedSessionData) { d.DrawCount = 2 },
			want:   "draw_count must be 1 or 3",
		},
		{
			name:   "unknown status",
			mutate: func(d *session.PersistedSessionData) { d.Status = "paused" },
			want:   `Unknown status "paused"`,
		},
		{
			name:   "card lost from a logged layout",
			mutate: func(d *session.PersistedSessionData) { d.MoveLog[0].State.Draw = d.MoveLog[0].State.Draw[1:] },
			want:   "Move 1 layout",
		},
		{
			name:   "misnumbered move log",
			mutate: func(d *session.PersistedSessionData) { d.MoveLog[0].MoveNumber = 4 },
			want:   "Move log entry 1 is numbered 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validSession()
			tt.mutate(&data)

			result := validateSession(writeSession(t, data))
			assert.False(t, result.Valid)
			assert.Contains(t, joinedErrors(result), tt.want)
		})
	}
}

func TestValidateSession_Unreadable(t *testing.T) {
	result := validateSession(writeFile(t, "bad.json", "not json"))
	assert.False(t, result.Valid)
	assert.Contains(t, joinedErrors(result), "Failed to read session")
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"), []byte(validConfig), 0644))

	ok, err := validateDir(dir, validateConfig)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0644))
	ok, err = validateDir(dir, validateConfig)
	require.NoError(t, err)
	assert.False(t, ok)
}
