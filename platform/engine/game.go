package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/DedS3t/monopoly-engine/platform/state"
	"github.com/DedS3t/monopoly-engine/platform/trade"
)

var colors = []string{"red", "blue", "green", "yellow", "purple", "orange", "pink", "cyan"}

type Seat struct {
	ID   string
	Name string
}

type Options struct {
	Dice       Dice
	Store      state.Store
	Notify     trade.Notify
	TradeTTL   time.Duration
	AuctionTTL time.Duration
	// Broadcast receives announcements made outside any command, such as an
	// auction closing on its timer.
	Broadcast func([]Announcement)
	Log       *logrus.Entry
}

type DecisionKind int

const (
	NoDecision DecisionKind = iota
	AwaitBuy
	AwaitRent
	AwaitTax
	AwaitPayEach
	AwaitJailRelease
	AwaitAuction
)

// Decision is what the current player must resolve before rolling again or
// ending the turn.
type Decision struct {
	Kind     DecisionKind `json:"kind"`
	Position int          `json:"position"`
	Amount   int          `json:"amount"`
	Owner    string       `json:"owner,omitempty"`
}

func (d Decision) String() string {
	switch d.Kind {
	case AwaitBuy:
		return fmt.Sprintf("buy or decline property #%d for $%d", d.Position, d.Amount)
	case AwaitRent:
		return fmt.Sprintf("pay $%d rent to %s", d.Amount, d.Owner)
	case AwaitTax:
		return fmt.Sprintf("pay $%d to the bank", d.Amount)
	case AwaitPayEach:
		return fmt.Sprintf("pay $%d to every other player", d.Amount)
	case AwaitJailRelease:
		return "pay the jail fine or use a get out of jail card"
	case AwaitAuction:
		return fmt.Sprintf("let the auction for property #%d finish", d.Position)
	}
	return "nothing"
}

// Game is one running game. Commands are serialized on mu; trade offers
// expire on their own timers inside the desk.
type Game struct {
	ID     string
	Board  *board.Board
	Store  state.Store
	Trades *trade.Desk

	mu         sync.Mutex
	dice       Dice
	log        *logrus.Entry
	broadcast  func([]Announcement)
	auctionTTL time.Duration
	names      map[string]string
	order      []string
	turn       int
	over       bool

	rolled   bool
	bonus    bool
	doubles  int
	lastRoll int
	pending  Decision
	auction  *auction
	auctions int
}

func NewGame(id string, b *board.Board, seats []Seat, opts Options) (*Game, error) {
	if len(seats) < 2 {
		return nil, fmt.Errorf("%w: a game needs at least two players", models.ErrWrongTurnState)
	}
	if opts.Dice == nil {
		opts.Dice = NewRandomDice()
	}
	if opts.Store == nil {
		opts.Store = state.NewMemoryStore()
	}
	if opts.AuctionTTL <= 0 {
		opts.AuctionTTL = DefaultAuctionTTL
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	log := opts.Log.WithField("game", id)

	g := &Game{
		ID:         id,
		Board:      b,
		Store:      opts.Store,
		dice:       opts.Dice,
		log:        log,
		broadcast:  opts.Broadcast,
		auctionTTL: opts.AuctionTTL,
		names:      make(map[string]string, len(seats)),
	}
	g.Trades = trade.NewDesk(opts.TradeTTL, opts.Notify, log)
	for i, seat := range seats {
		if _, dup := g.names[seat.ID]; dup {
			return nil, fmt.Errorf("player %s seated twice", seat.ID)
		}
		if err := g.Store.Create(seat.ID, models.NewPlayerState(b.StartingMoney, colors[i%len(colors)])); err != nil {
			return nil, err
		}
		g.names[seat.ID] = seat.Name
		g.order = append(g.order, seat.ID)
	}
	log.WithField("players", len(seats)).Info("game started")
	return g, nil
}

func (g *Game) name(id string) string {
	if n := g.names[id]; n != "" {
		return n
	}
	return id
}

func (g *Game) Name(id string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.name(id)
}

func wrong(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{models.ErrWrongTurnState}, args...)...)
}

func (g *Game) current() string {
	return g.order[g.turn]
}

func (g *Game) seated(player string) bool {
	for _, id := range g.order {
		if id == player {
			return true
		}
	}
	return false
}

// requireTurn guards every current-player-only command.
func (g *Game) requireTurn(player string) error {
	if g.over {
		return wrong("the game is over")
	}
	if !g.seated(player) {
		return fmt.Errorf("%w: %s", models.ErrUnknownPlayer, player)
	}
	if g.current() != player {
		return wrong("it is %s's turn", g.name(g.current()))
	}
	return nil
}

func (g *Game) requireSeated(player string) error {
	if g.over {
		return wrong("the game is over")
	}
	if !g.seated(player) {
		return fmt.Errorf("%w: %s", models.ErrUnknownPlayer, player)
	}
	return nil
}

func (g *Game) env() trade.Env {
	return trade.Env{
		Board:   g.Board,
		Store:   g.Store,
		Players: append([]string(nil), g.order...),
	}
}

func (g *Game) advance(out *announcer) {
	g.turn = (g.turn + 1) % len(g.order)
	g.rolled, g.bonus, g.doubles = false, false, 0
	g.pending = Decision{}
	g.cancelAuction()
	next := g.current()
	out.add("change-turn", next, "It is %s's turn", g.name(next))
}

// Drop removes a player from the game. Their properties go back to the bank
// and every trade they are part of is cancelled.
func (g *Game) Drop(player string) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireSeated(player); err != nil {
		return nil, err
	}

	var out announcer
	idx := 0
	for i, id := range g.order {
		if id == player {
			idx = i
		}
	}
	wasCurrent := idx == g.turn
	g.order = append(g.order[:idx], g.order[idx+1:]...)
	if idx < g.turn {
		g.turn--
	}

	released := g.Board.ReleaseAll(player)
	g.Trades.CloseInvolving(player)
	if err := g.Store.Remove(player); err != nil {
		g.log.WithError(err).WithField("player", player).Warn("removing player state")
	}
	out.add("player-left", player, "%s left the game, %d properties return to the bank", g.name(player), len(released))
	g.log.WithField("player", player).Info("player dropped")
	if g.pending.Kind == AwaitRent && g.pending.Owner == player {
		// nobody is left to collect
		g.pending = Decision{}
	}
	g.leaveAuction(player)

	if len(g.order) == 1 {
		g.cancelAuction()
		g.pending = Decision{}
		g.over = true
		g.turn = 0
		out.add("game-over", g.order[0], "%s wins!", g.name(g.order[0]))
		return out, nil
	}
	if wasCurrent {
		// the next player slid into the dropped seat
		g.turn = (g.turn + len(g.order) - 1) % len(g.order)
		g.advance(&out)
	} else {
		g.settleAuction(false, &out)
	}
	return out, nil
}

type TurnView struct {
	Current  string       `json:"current"`
	Order    []string     `json:"order"`
	Rolled   bool         `json:"rolled"`
	Bonus    bool         `json:"bonus"`
	Doubles  int          `json:"doubles"`
	LastRoll int          `json:"last_roll"`
	Pending  Decision     `json:"pending"`
	Auction  *AuctionView `json:"auction,omitempty"`
	Over     bool         `json:"over"`
}

func (g *Game) Turn() TurnView {
	g.mu.Lock()
	defer g.mu.Unlock()
	v := TurnView{
		Current:  g.current(),
		Order:    append([]string(nil), g.order...),
		Rolled:   g.rolled,
		Bonus:    g.bonus,
		Doubles:  g.doubles,
		LastRoll: g.lastRoll,
		Pending:  g.pending,
		Over:     g.over,
	}
	if g.auction != nil {
		v.Auction = g.auction.view()
	}
	return v
}

func (g *Game) Players() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.order...)
}

func (g *Game) Player(id string) (models.PlayerState, error) {
	return g.Store.Get(id)
}
