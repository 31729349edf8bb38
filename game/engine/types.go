package engine

import "time"

// Suit identifies one of the four card suits
type Suit string

const (
	Spades   Suit = "spades"
	Clubs    Suit = "clubs"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
)

// Suits lists the suits in deck-building order
var Suits = []Suit{Spades, Clubs, Hearts, Diamonds}

// Value is a card rank, ace=1 through king=13
type Value int

const (
	Ace   Value = 1
	Jack  Value = 11
	Queen Value = 12
	King  Value = 13
)

// Pile names. The JSON form of a State is keyed exactly by these.
const (
	Pile1   = "pile1"
	Pile2   = "pile2"
	Pile3   = "pile3"
	Pile4   = "pile4"
	Pile5   = "pile5"
	Pile6   = "pile6"
	Pile7   = "pile7"
	Stack1  = "stack1"
	Stack2  = "stack2"
	Stack3  = "stack3"
	Stack4  = "stack4"
	Draw    = "draw"
	Discard = "discard"

	// Layout constants
	DeckSize       = 52
	TableauPiles   = 7
	FoundationSize = 13
	InitialDraw    = 24
)

// TableauNames lists pile1..pile7 in order
var TableauNames = []string{Pile1, Pile2, Pile3, Pile4, Pile5, Pile6, Pile7}

// FoundationNames lists stack1..stack4 in order
var FoundationNames = []string{Stack1, Stack2, Stack3, Stack4}

// PileNames lists all 13 pile names
var PileNames = []string{
	Pile1, Pile2, Pile3, Pile4, Pile5, Pile6, Pile7,
	Stack1, Stack2, Stack3, Stack4,
	Draw, Discard,
}

// Move is a request to move cards from one pile to another
type Move struct {
	Src string `json:"src"`
	Dst string `json:"dst"`
}

// Result is the outcome of a status check after a move
type Result string

const (
	ResultWon      Result = "won"
	ResultLost     Result = "lost"
	ResultContinue Result = "continue"
)

// GameStatus is the terminal status of a game session
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusLost   GameStatus = "lost"
)

// StatusFor maps a check result onto a session status
func StatusFor(r Result) GameStatus {
	switch r {
	case ResultWon:
		return StatusWon
	case ResultLost:
		return StatusLost
	default:
		return StatusActive
	}
}

// MoveLogEntry records a single accepted move and the layout it left
// behind, so a finished game can be replayed move by move.
type MoveLogEntry struct {
	ID         string    `json:"id"`
	Src        string    `json:"src"`
	Dst        string    `json:"dst"`
	Result     Result    `json:"result"`
	MoveNumber int       `json:"move_number"`
	Timestamp  time.Time `json:"timestamp"`
	State      *State    `json:"state,omitempty"`
}

// clone copies the entry along with its layout
func (m MoveLogEntry) clone() MoveLogEntry {
	if m.State != nil {
		s := m.State.Clone()
		m.State = &s
	}
	return m
}

// SavedGame is the document needed to resume a game session
type SavedGame struct {
	State     State          `json:"state"`
	Undo      []State        `json:"undo"`
	Redo      []State        `json:"redo"`
	DrawCount int            `json:"draw_count"`
	Moves     int            `json:"moves"`
	Status    GameStatus     `json:"status"`
	Active    bool           `json:"active"`
	MoveLog   []MoveLogEntry `json:"move_log"`
}
