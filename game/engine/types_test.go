package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardColors(t *testing.T) {
	tests := []struct {
		suit Suit
		red  bool
	}{
		{Hearts, true},
		{Diamonds, true},
		{Spades, false},
		{Clubs, false},
	}
	for _, tt := range tests {
		c := NewCard(tt.suit, 5)
		assert.Equal(t, tt.red, c.IsRed(), tt.suit)
		assert.Equal(t, !tt.red, c.IsBlack(), tt.suit)
	}
	assert.True(t, alternatingColor(up(Hearts, 3), up(Clubs, 4)))
	assert.False(t, alternatingColor(up(Hearts, 3), up(Diamonds, 4)))
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "ace of spades", NewCard(Spades, Ace).String())
	assert.Equal(t, "10 of hearts", NewCard(Hearts, 10).String())
	assert.Equal(t, "queen of clubs", NewCard(Clubs, Queen).String())
}

func TestValueJSON(t *testing.T) {
	tests := []struct {
		value Value
		json  string
	}{
		{Ace, `"ace"`},
		{2, `2`},
		{10, `10`},
		{Jack, `"jack"`},
		{Queen, `"queen"`},
		{King, `"king"`},
	}

	for _, tt := range tests {
		t.Run(tt.json, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(data))

			var got Value
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestValueUnmarshalAlternateForms(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`"7"`), &v))
	assert.Equal(t, Value(7), v)
	require.NoError(t, json.Unmarshal([]byte(`1`), &v))
	assert.Equal(t, Ace, v)
	require.NoError(t, json.Unmarshal([]byte(`"King"`), &v))
	assert.Equal(t, King, v)

	assert.Error(t, json.Unmarshal([]byte(`14`), &v))
	assert.Error(t, json.Unmarshal([]byte(`"joker"`), &v))
	assert.Error(t, json.Unmarshal([]byte(`true`), &v))

	_, err := json.Marshal(Value(0))
	assert.Error(t, err)
}

func TestCardJSON(t *testing.T) {
	data, err := json.Marshal(up(Hearts, Queen))
	require.NoError(t, err)
	assert.JSONEq(t, `{"suit":"hearts","value":"queen","up":true}`, string(data))
}

func TestStateJSONKeys(t *testing.T) {
	s := NewEmptyState()
	s.Pile1 = []Card{up(Clubs, 4)}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, len(PileNames))
	for _, name := range PileNames {
		require.Contains(t, raw, name)
	}
	assert.JSONEq(t, `[]`, string(raw[Stack2]), "empty piles are arrays, not null")
	assert.JSONEq(t, `[{"suit":"clubs","value":4,"up":true}]`, string(raw[Pile1]))
}

func TestStateJSONRoundTrip(t *testing.T) {
	s := Deal()
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var got State
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, s, got)
}

func TestStateUnmarshalMissingPiles(t *testing.T) {
	var s State
	require.NoError(t, json.Unmarshal([]byte(`{"pile1":[{"suit":"spades","value":"king","up":true}]}`), &s))
	assert.Equal(t, []Card{up(Spades, King)}, s.Pile1)
	assert.NotNil(t, s.Discard)
	assert.Empty(t, s.Discard)
}

func TestStateClone(t *testing.T) {
	s := Deal()
	c := s.Clone()
	require.Equal(t, s, c)

	c.Pile3[0].Up = !c.Pile3[0].Up
	c.Draw = c.Draw[:1]
	assert.NotEqual(t, s.Pile3[0].Up, c.Pile3[0].Up)
	assert.Len(t, s.Draw, InitialDraw)
}

func TestStatePile(t *testing.T) {
	s := NewEmptyState()
	s.Stack4 = []Card{up(Diamonds, Ace)}

	p, ok := s.Pile(Stack4)
	require.True(t, ok)
	p[0].Value = King
	assert.Equal(t, Ace, s.Stack4[0].Value)

	_, ok = s.Pile("stack0")
	assert.False(t, ok)
}

func TestStateCounts(t *testing.T) {
	s := aceOverFiveLayout()
	assert.Equal(t, DeckSize, s.CardCount())
	assert.Equal(t, 0, s.FoundationCount())
	assert.Equal(t, DeckSize, s.CardsRemaining())

	s.Stack1 = append(s.Stack1, s.Pile1[1])
	s.Pile1 = s.Pile1[:1]
	assert.Equal(t, 1, s.FoundationCount())
	assert.Equal(t, DeckSize-1, s.CardsRemaining())
}

func TestStateValidate(t *testing.T) {
	dealt := Deal()
	assert.NoError(t, dealt.Validate())

	t.Run("duplicate", func(t *testing.T) {
		s := Deal()
		s.Discard = append(s.Discard, s.Pile1[0])
		assert.ErrorIs(t, s.Validate(), ErrInvalidState)
	})

	t.Run("missing", func(t *testing.T) {
		s := Deal()
		s.Draw = s.Draw[:10]
		assert.ErrorIs(t, s.Validate(), ErrInvalidState)
	})

	t.Run("malformed", func(t *testing.T) {
		s := Deal()
		s.Draw[0].Suit = "stars"
		assert.ErrorIs(t, s.Validate(), ErrInvalidState)
	})
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusWon, StatusFor(ResultWon))
	assert.Equal(t, StatusLost, StatusFor(ResultLost))
	assert.Equal(t, StatusActive, StatusFor(ResultContinue))
}
