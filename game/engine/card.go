package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Card is a playing card. Suit and Value are its identity; Up is its face-up flag.
type Card struct {
	Suit  Suit  `json:"suit"`
	Value Value `json:"value"`
	Up    bool  `json:"up"`
}

// NewCard returns a face-down card
func NewCard(suit Suit, value Value) Card {
	return Card{Suit: suit, Value: value}
}

// IsRed reports whether the card is a heart or diamond
func (c Card) IsRed() bool {
	return c.Suit == Hearts || c.Suit == Diamonds
}

// IsBlack reports whether the card is a club or spade
func (c Card) IsBlack() bool {
	return c.Suit == Clubs || c.Suit == Spades
}

// SameCard reports whether two cards share suit and value, ignoring the face-up flag
func (c Card) SameCard(other Card) bool {
	return c.Suit == other.Suit && c.Value == other.Value
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Value, c.Suit)
}

// alternatingColor reports whether a and b are of opposite colors
func alternatingColor(a, b Card) bool {
	return (a.IsRed() && b.IsBlack()) || (a.IsBlack() && b.IsRed())
}

func validSuit(s Suit) bool {
	for _, suit := range Suits {
		if s == suit {
			return true
		}
	}
	return false
}

var faceNames = map[Value]string{
	Ace:   "ace",
	Jack:  "jack",
	Queen: "queen",
	King:  "king",
}

func (v Value) String() string {
	if name, ok := faceNames[v]; ok {
		return name
	}
	return strconv.Itoa(int(v))
}

// Valid reports whether v is between ace and king
func (v Value) Valid() bool {
	return v >= Ace && v <= King
}

// MarshalJSON writes ace and face cards as names and 2..10 as numbers
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("invalid card value %d", int(v))
	}
	if name, ok := faceNames[v]; ok {
		return json.Marshal(name)
	}
	return json.Marshal(int(v))
}

// UnmarshalJSON accepts either a number or a name ("ace", "7", "king")
func (v *Value) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		parsed := Value(n)
		if !parsed.Valid() {
			return fmt.Errorf("invalid card value %d", n)
		}
		*v = parsed
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid card value %s", string(data))
	}
	parsed, err := ParseValue(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseValue parses a card value name or number
func ParseValue(s string) (Value, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, name := range faceNames {
		if s == name {
			return v, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Value(n).Valid() {
		return 0, fmt.Errorf("invalid card value %q", s)
	}
	return Value(n), nil
}
