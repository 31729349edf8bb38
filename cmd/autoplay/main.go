// Command autoplay plays Klondike against a running server through the REST
// API. Each attempt deals a new game and plays greedily until it is won or
// stuck; stuck games are quit.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

// Outcome is how an attempt ended
type Outcome string

const (
	OutcomeWon      Outcome = "won"
	OutcomeStuck    Outcome = "stuck"
	OutcomeMaxMoves Outcome = "max-moves"
)

// AttemptResult summarizes one game
type AttemptResult struct {
	SessionID      string
	Outcome        Outcome
	Moves          int
	CardsRemaining int
}

// Player drives attempts with a client and a strategy
type Player struct {
	client   *Client
	maxMoves int
	delay    time.Duration
	log      log.FieldLogger
}

// Play continues the client's current session from info until it ends
func (p *Player) Play(ctx context.Context, info *service.SessionInfo) (*AttemptResult, error) {
	if info.State == nil {
		return nil, errors.New("session has no state")
	}

	strategy := NewGreedyStrategy(info.DrawCount)
	state := *info.State
	strategy.Observe(state)

	result := &AttemptResult{SessionID: info.ID, CardsRemaining: state.CardsRemaining()}
	for moves := 0; ; moves++ {
		if state.CardsRemaining() == 0 {
			result.Outcome = OutcomeWon
			return result, nil
		}
		if moves >= p.maxMoves {
			result.Outcome = OutcomeMaxMoves
			return result, nil
		}

		candidates, err := p.client.Hint(ctx)
		if err != nil {
			return nil, err
		}
		move, ok := strategy.NextMove(state, candidates)
		if !ok {
			result.Outcome = OutcomeStuck
			return result, nil
		}

		moved, err := p.client.Move(ctx, move)
		if err != nil {
			return nil, err
		}
		state = *moved.State
		result.Moves = moved.Moves
		result.CardsRemaining = moved.CardsRemaining

		p.log.WithFields(log.Fields{
			"move":      moved.Moves,
			"src":       move.Src,
			"dst":       move.Dst,
			"remaining": moved.CardsRemaining,
		}).Debug("played")

		if !strategy.Observe(state) {
			result.Outcome = OutcomeStuck
			return result, nil
		}

		if p.delay > 0 {
			time.Sleep(p.delay)
		}
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "play Klondike against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL"},
			&cli.StringFlag{Name: "config", Usage: "preset to deal with (draw1, draw3)"},
			&cli.StringFlag{Name: "draw", Usage: `draw option, "Draw 1" or "Draw 3"`},
			&cli.StringFlag{Name: "continue", Usage: "resume an existing session by ID for the first attempt"},
			&cli.IntFlag{Name: "max-moves", Value: 3000, Usage: "maximum moves per attempt"},
			&cli.IntFlag{Name: "max-attempts", Value: 100, Usage: "maximum attempts before giving up"},
			&cli.DurationFlag{Name: "delay", Usage: "pause between moves"},
			&cli.BoolFlag{Name: "v", Usage: "verbose output"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// sessionFile remembers the last session between runs
const sessionFile = ".session"

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("v") {
		log.SetLevel(log.DebugLevel)
	}

	serverURL := cmd.String("url")
	log.Infof("Connecting to game server at %s", serverURL)

	player := &Player{
		client:   NewClient(serverURL),
		maxMoves: int(cmd.Int("max-moves")),
		delay:    cmd.Duration("delay"),
		log:      log.StandardLogger(),
	}

	resumeID := cmd.String("continue")
	if resumeID == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			resumeID = string(bytes.TrimSpace(data))
		}
	}

	maxAttempts := int(cmd.Int("max-attempts"))
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		info, err := player.start(ctx, resumeID, cmd.String("config"), cmd.String("draw"))
		if err != nil {
			return err
		}
		resumeID = ""

		if err := os.WriteFile(sessionFile, []byte(info.ID), 0644); err != nil {
			log.WithError(err).Warn("Failed to save session ID")
		}

		log.Infof("=== Attempt %d/%d: session %s, draw %d ===", attempt, maxAttempts, info.ID, info.DrawCount)

		result, err := player.Play(ctx, info)
		if err != nil {
			return fmt.Errorf("attempt %d: %w", attempt, err)
		}

		log.WithFields(log.Fields{
			"outcome":   result.Outcome,
			"moves":     result.Moves,
			"remaining": result.CardsRemaining,
		}).Infof("Attempt %d finished", attempt)

		if result.Outcome == OutcomeWon {
			log.Infof("VICTORY! Game won in attempt %d with %d moves (session %s)", attempt, result.Moves, result.SessionID)
			return nil
		}

		if err := player.client.Quit(ctx); err != nil {
			log.WithError(err).Warn("Failed to quit session")
		}
	}

	return fmt.Errorf("failed to win after %d attempts", maxAttempts)
}

// start resumes sessionID when it is still playable, otherwise deals a new game
func (p *Player) start(ctx context.Context, sessionID, configID, draw string) (*service.SessionInfo, error) {
	if sessionID != "" {
		info, err := p.client.Resume(ctx, sessionID)
		switch {
		case err != nil:
			p.log.WithError(err).Warn("Failed to resume session (may be expired)")
		case !info.Active || info.Status == engine.StatusWon:
			p.log.WithField("session", sessionID).Info("Saved session is finished")
		default:
			p.log.WithField("session", sessionID).Info("Resuming session")
			return info, nil
		}
	}

	info, err := p.client.CreateSession(ctx, configID, draw)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return info, nil
}
