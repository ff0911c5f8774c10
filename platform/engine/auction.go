package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/state"
)

const DefaultAuctionTTL = 30 * time.Second

// auction sells a declined property to the highest bidder. Every seated
// player may bid until they pass; it closes once only the high bidder is
// left, or when its timer fires.
type auction struct {
	seq    int
	pos    int
	high   int
	bidder string
	passed map[string]bool
	timer  *time.Timer
}

type AuctionView struct {
	Position int      `json:"position"`
	High     int      `json:"high"`
	Bidder   string   `json:"bidder,omitempty"`
	Passed   []string `json:"passed"`
}

func (a *auction) view() *AuctionView {
	v := &AuctionView{Position: a.pos, High: a.high, Bidder: a.bidder, Passed: []string{}}
	for id := range a.passed {
		v.Passed = append(v.Passed, id)
	}
	sort.Strings(v.Passed)
	return v
}

func (g *Game) openAuction(player string, pos int, out *announcer) {
	s, _ := g.Board.Space(pos)
	g.auctions++
	a := &auction{seq: g.auctions, pos: pos, passed: map[string]bool{}}
	seq := a.seq
	a.timer = time.AfterFunc(g.auctionTTL, func() { g.expireAuction(seq) })
	g.auction = a
	g.pending = Decision{Kind: AwaitAuction, Position: pos}
	out.add("auction", player, "%s is up for auction for %s", s.Name, g.auctionTTL)
	g.log.WithFields(logrus.Fields{"position": pos, "auction": seq}).Info("auction opened")
}

func (g *Game) runningAuction(player string) (*auction, error) {
	if err := g.requireSeated(player); err != nil {
		return nil, err
	}
	if g.auction == nil {
		return nil, wrong("no auction is running")
	}
	if g.auction.passed[player] {
		return nil, wrong("you already passed")
	}
	return g.auction, nil
}

// Bid raises the high bid on the running auction.
func (g *Game) Bid(player string, amount int) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a, err := g.runningAuction(player)
	if err != nil {
		return nil, err
	}
	if amount <= a.high {
		return nil, wrong("bid more than $%d", a.high)
	}
	p, err := g.Store.Get(player)
	if err != nil {
		return nil, err
	}
	if p.Money < amount {
		return nil, fmt.Errorf("%w: need $%d, have $%d", models.ErrInsufficientFunds, amount, p.Money)
	}
	a.high, a.bidder = amount, player

	var out announcer
	out.add("bid", player, "%s bids $%d", g.name(player), amount)
	g.settleAuction(false, &out)
	return out, nil
}

// PassAuction drops the player out of the running auction.
func (g *Game) PassAuction(player string) ([]Announcement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a, err := g.runningAuction(player)
	if err != nil {
		return nil, err
	}
	if a.bidder == player {
		return nil, wrong("you hold the high bid")
	}
	a.passed[player] = true

	var out announcer
	out.add("pass", player, "%s passes", g.name(player))
	g.settleAuction(false, &out)
	return out, nil
}

// settleAuction closes the auction when force is set or nobody but the high
// bidder is still in.
func (g *Game) settleAuction(force bool, out *announcer) {
	a := g.auction
	if a == nil {
		return
	}
	if !force {
		for _, id := range g.order {
			if id != a.bidder && !a.passed[id] {
				return
			}
		}
	}
	g.cancelAuction()
	if g.pending.Kind == AwaitAuction {
		g.pending = Decision{}
	}

	s, _ := g.Board.Space(a.pos)
	log := g.log.WithFields(logrus.Fields{"position": a.pos, "auction": a.seq})
	if a.bidder == "" {
		out.add("auction-none", "", "Nobody bought %s", s.Name)
		log.Info("auction closed without bids")
		return
	}
	if _, err := state.Charge(g.Store, a.bidder, a.high); err != nil {
		out.add("auction-none", a.bidder, "%s can no longer pay $%d, %s stays with the bank", g.name(a.bidder), a.high, s.Name)
		log.WithError(err).Info("auction winner could not pay")
		return
	}
	if err := g.Board.SetOwner(a.pos, a.bidder); err != nil {
		state.Credit(g.Store, a.bidder, a.high)
		log.WithError(err).Warn("auction transfer failed")
		return
	}
	out.add("auction-won", a.bidder, "%s buys %s for $%d", g.name(a.bidder), s.Name, a.high)
	log.WithFields(logrus.Fields{"winner": a.bidder, "price": a.high}).Info("auction closed")
}

func (g *Game) cancelAuction() {
	if g.auction != nil {
		g.auction.timer.Stop()
		g.auction = nil
	}
}

// leaveAuction forgets a player who left the game. Their high bid, if any,
// is withdrawn.
func (g *Game) leaveAuction(player string) {
	a := g.auction
	if a == nil {
		return
	}
	delete(a.passed, player)
	if a.bidder == player {
		a.high, a.bidder = 0, ""
	}
}

// expireAuction is run by the auction timer. A timer that fires after its
// auction closed does nothing.
func (g *Game) expireAuction(seq int) {
	g.mu.Lock()
	if g.auction == nil || g.auction.seq != seq {
		g.mu.Unlock()
		return
	}
	var out announcer
	out.add("auction-timeout", "", "Bidding time is up")
	g.settleAuction(true, &out)
	broadcast := g.broadcast
	g.mu.Unlock()

	if broadcast != nil {
		broadcast(out)
	}
}
