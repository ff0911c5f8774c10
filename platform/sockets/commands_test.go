package socket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/DedS3t/monopoly-engine/platform/engine"
)

type fixedDice struct{ a, b int }

func (d fixedDice) Roll() (int, int) { return d.a, d.b }

func newGame(t *testing.T) *engine.Game {
	t.Helper()
	g, err := engine.NewGame("g1", board.LoadDefault(), []engine.Seat{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}}, engine.Options{
		Dice: fixedDice{2, 1},
	})
	require.NoError(t, err)
	return g
}

func TestParseRequest(t *testing.T) {
	req, err := parseRequest(`{"game_id":"g1","token":"t","args":["give","$5"]}`)
	require.NoError(t, err)
	assert.Equal(t, Request{GameID: "g1", Token: "t", Args: []string{"give", "$5"}}, req)

	_, err = parseRequest(`{"token":"t"}`)
	assert.ErrorIs(t, err, models.ErrInvalidFormat)
	_, err = parseRequest(`not json`)
	assert.ErrorIs(t, err, models.ErrInvalidFormat)
}

func TestDispatchTurn(t *testing.T) {
	g := newGame(t)

	_, err := Dispatch(g, "b", "roll-dice", nil)
	assert.ErrorIs(t, err, models.ErrWrongTurnState)

	reply, err := Dispatch(g, "a", "roll-dice", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Announcements)

	_, err = Dispatch(g, "a", "request-buy", nil)
	require.NoError(t, err)
	reply, err = Dispatch(g, "a", "end-turn", nil)
	require.NoError(t, err)
	assert.Equal(t, "change-turn", reply.Announcements[0].Event)
	assert.Equal(t, "b", g.Turn().Current)

	_, err = Dispatch(g, "a", "fly", nil)
	assert.ErrorIs(t, err, models.ErrInvalidFormat)
}

func TestDispatchAuction(t *testing.T) {
	g := newGame(t)
	_, err := Dispatch(g, "a", "roll-dice", nil)
	require.NoError(t, err)
	_, err = Dispatch(g, "a", "decline-buy", nil)
	require.NoError(t, err)

	for _, args := range [][]string{nil, {"lots"}, {"$0"}, {"1", "2"}} {
		_, err := Dispatch(g, "b", "bid", args)
		assert.ErrorIs(t, err, models.ErrInvalidFormat, "%v", args)
	}

	_, err = Dispatch(g, "b", "bid", []string{"$45"})
	require.NoError(t, err)
	reply, err := Dispatch(g, "a", "pass-auction", nil)
	require.NoError(t, err)
	assert.Equal(t, "auction-won", reply.Announcements[len(reply.Announcements)-1].Event)

	s, _ := g.Board.Space(3)
	assert.Equal(t, "b", s.Owner)
}

func TestDispatchPropertyCommands(t *testing.T) {
	g := newGame(t)
	require.NoError(t, g.Board.SetOwner(1, "a"))
	require.NoError(t, g.Board.SetOwner(3, "a"))

	_, err := Dispatch(g, "a", "buy-house", nil)
	assert.ErrorIs(t, err, models.ErrInvalidFormat)

	_, err = Dispatch(g, "a", "buy-house", []string{"a1"})
	require.NoError(t, err)
	s, _ := g.Board.Space(1)
	assert.Equal(t, 1, s.Houses)

	_, err = Dispatch(g, "a", "mortgage", []string{"A3"})
	assert.ErrorIs(t, err, models.ErrWrongTurnState)

	_, err = Dispatch(g, "a", "sell-house", []string{"A1"})
	require.NoError(t, err)
	_, err = Dispatch(g, "a", "mortgage", []string{"A3"})
	require.NoError(t, err)
	_, err = Dispatch(g, "a", "unmortgage", []string{"A3"})
	require.NoError(t, err)
}

func TestDispatchTrade(t *testing.T) {
	g := newGame(t)
	require.NoError(t, g.Board.SetOwner(1, "a"))

	reply, err := Dispatch(g, "b", "trade", []string{"take", "A1"})
	require.NoError(t, err)
	assert.Contains(t, reply.Private, "property #1")

	_, err = Dispatch(g, "b", "trade", []string{"give", "money", "80"})
	require.NoError(t, err)

	reply, err = Dispatch(g, "b", "trade", []string{"offer"})
	require.NoError(t, err)
	assert.Contains(t, reply.Private, "trade #1")

	reply, err = Dispatch(g, "a", "trade", []string{"show", "#1"})
	require.NoError(t, err)
	assert.Contains(t, reply.Private, "expires")

	reply, err = Dispatch(g, "a", "trade", []string{"copy", "1"})
	require.NoError(t, err)
	assert.Contains(t, reply.Private, "draft trade")
	_, err = Dispatch(g, "a", "trade", []string{"close"})
	require.NoError(t, err)

	reply, err = Dispatch(g, "a", "trade", []string{"accept", "1"})
	require.NoError(t, err)
	require.Len(t, reply.Announcements, 1)
	assert.Equal(t, "trade", reply.Announcements[0].Event)

	s, _ := g.Board.Space(1)
	assert.Equal(t, "b", s.Owner)
}

func TestDispatchTradeErrors(t *testing.T) {
	g := newGame(t)
	for _, args := range [][]string{
		nil,
		{"haggle"},
		{"accept"},
		{"accept", "x"},
		{"reject", "0"},
	} {
		_, err := Dispatch(g, "a", "trade", args)
		assert.ErrorIs(t, err, models.ErrInvalidFormat, "%v", args)
	}

	_, err := Dispatch(g, "a", "trade", []string{"reject", "9"})
	assert.ErrorIs(t, err, models.ErrTradeClosed)
}
