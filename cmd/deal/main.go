// Command deal inspects Klondike deals and saved sessions from the terminal.
//
//	deal shuffle [--seed N]             print a shuffled deck, one card per line
//	deal initial [--seed N] [--draw 3]  print the opening layout and its legal moves
//	deal status <session.json>          summarize a saved session
//
// A seed makes the output repeatable; without one the deck is random.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/session"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "deal: %v\n", err)
		os.Exit(1)
	}
}

var seedFlag = &cli.Uint64Flag{
	Name:    "seed",
	Aliases: []string{"s"},
	Usage:   "seed for a repeatable shuffle",
}

// shufflerFor returns a seeded shuffler when --seed was given
func shufflerFor(cmd *cli.Command) *engine.Shuffler {
	if cmd.IsSet("seed") {
		seed := cmd.Uint64("seed")
		return engine.NewSeededShuffler(seed, seed)
	}
	return engine.NewShuffler()
}

func newApp(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "deal",
		Usage: "inspect Klondike deals and saved sessions",
		Commands: []*cli.Command{
			{
				Name:  "shuffle",
				Usage: "print a shuffled 52-card deck",
				Flags: []cli.Flag{
					seedFlag,
					&cli.BoolFlag{Name: "jokers", Usage: "accepted for compatibility; the deck never has jokers"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					for i, c := range shufflerFor(cmd).Shuffle(cmd.Bool("jokers")) {
						fmt.Fprintf(w, "%2d  %s\n", i+1, c)
					}
					return nil
				},
			},
			{
				Name:  "initial",
				Usage: "print the opening layout of a new deal",
				Flags: []cli.Flag{
					seedFlag,
					&cli.IntFlag{Name: "draw", Aliases: []string{"d"}, Value: 1, Usage: "cards turned per draw (1 or 3)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					drawCount := int(cmd.Int("draw"))
					if !engine.ValidDrawCount(drawCount) {
						return fmt.Errorf("%w: %d", engine.ErrInvalidDrawCount, drawCount)
					}
					state := shufflerFor(cmd).Deal()
					printLayout(w, &state)
					printMoves(w, state, drawCount)
					return nil
				},
			},
			{
				Name:      "status",
				Usage:     "summarize a saved session file",
				ArgsUsage: "<session.json>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() != 1 {
						return fmt.Errorf("expected one session file, got %d arguments", cmd.NArg())
					}
					data, err := session.ReadSessionFile(cmd.Args().First())
					if err != nil {
						return err
					}
					if err := data.State.Validate(); err != nil {
						return err
					}
					printStatus(w, data)
					return nil
				},
			},
		},
	}
}

func printLayout(w io.Writer, state *engine.State) {
	for i, pile := range state.Tableau() {
		fmt.Fprintf(w, "%-8s %s\n", engine.TableauNames[i], describePile(pile))
	}
	for i, stack := range state.Foundations() {
		fmt.Fprintf(w, "%-8s %s\n", engine.FoundationNames[i], describePile(stack))
	}
	fmt.Fprintf(w, "%-8s %d cards\n", engine.Draw, len(state.Draw))
	fmt.Fprintf(w, "%-8s %s\n", engine.Discard, describePile(state.Discard))
}

// describePile lists face-up cards by name and counts the face-down ones
func describePile(cards []engine.Card) string {
	if len(cards) == 0 {
		return "-"
	}
	down := 0
	var up []string
	for _, c := range cards {
		if c.Up {
			up = append(up, c.String())
		} else {
			down++
		}
	}
	parts := []string{}
	if down > 0 {
		parts = append(parts, fmt.Sprintf("[%d down]", down))
	}
	if len(up) > 0 {
		parts = append(parts, strings.Join(up, ", "))
	}
	return strings.Join(parts, " ")
}

func printMoves(w io.Writer, state engine.State, drawCount int) {
	moves := engine.LegalMoves(state, drawCount)
	fmt.Fprintf(w, "\nlegal moves (%d):\n", len(moves))
	for _, m := range moves {
		fmt.Fprintf(w, "  %s -> %s\n", m.Src, m.Dst)
	}
}

func printStatus(w io.Writer, data *session.PersistedSessionData) {
	progress := engine.FoundationProgress(data.State)
	fmt.Fprintf(w, "session  %s (%s, draw %d)\n", data.ID, data.ConfigName, data.DrawCount)
	fmt.Fprintf(w, "status   %s", data.Status)
	if !data.Active {
		fmt.Fprint(w, " (quit)")
	}
	fmt.Fprintf(w, "\nmoves    %d\n", data.Moves)
	fmt.Fprintf(w, "built    %d %d %d %d, %d cards remaining\n",
		progress[0], progress[1], progress[2], progress[3], data.State.CardsRemaining())
	fmt.Fprintf(w, "hidden   %d face-down tableau cards\n", engine.CountFaceDown(data.State))
	fmt.Fprintf(w, "history  %d undo, %d redo\n", len(data.Undo), len(data.Redo))
	fmt.Fprintf(w, "outlook  %s\n\n", engine.CheckStatus(&data.State, data.DrawCount))
	printLayout(w, &data.State)
	printMoves(w, data.State, data.DrawCount)
}
