package trade

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DedS3t/monopoly-engine/app/models"
)

const DefaultTTL = 5 * time.Minute

// Notify delivers a private message to one player.
type Notify func(player string, text string)

type note struct {
	player string
	text   string
}

// Desk holds each player's draft and the registry of offered trades for one
// game. Offered trades expire after the desk's TTL.
type Desk struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	notify  Notify
	log     *logrus.Entry
	drafts  map[string]*Table
	offered map[int]*Table
	next    int
}

func NewDesk(ttl time.Duration, notify Notify, log *logrus.Entry) *Desk {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if notify == nil {
		notify = func(string, string) {}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Desk{
		ttl:     ttl,
		now:     time.Now,
		notify:  notify,
		log:     log,
		drafts:  map[string]*Table{},
		offered: map[int]*Table{},
	}
}

func (d *Desk) send(notes []note) {
	for _, n := range notes {
		d.notify(n.player, n.text)
	}
}

// Draft returns the player's draft, if any.
func (d *Desk) Draft(player string) (Table, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.drafts[player]
	if !ok {
		return Table{}, false
	}
	return t.clone(), true
}

func (d *Desk) draft(player string) *Table {
	t, ok := d.drafts[player]
	if !ok {
		t = &Table{Owner: player}
		d.drafts[player] = t
	}
	return t
}

// Give toggles item on the side the player hands over.
func (d *Desk) Give(player string, item models.TradeItem) Table {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.draft(player)
	t.give(item)
	return t.clone()
}

// Take toggles item on the side the player asks for.
func (d *Desk) Take(player string, item models.TradeItem) Table {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.draft(player)
	t.take(item)
	return t.clone()
}

func (d *Desk) Discard(player string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.drafts[player]; !ok {
		return fmt.Errorf("%w: you have no draft trade", models.ErrWrongTurnState)
	}
	delete(d.drafts, player)
	return nil
}

// Offer turns the player's draft into an open offer. recipient may be empty
// when exactly one other player can satisfy the request.
func (d *Desk) Offer(env Env, player, recipient string) (Table, error) {
	d.mu.Lock()
	draft, ok := d.drafts[player]
	if !ok {
		d.mu.Unlock()
		return Table{}, fmt.Errorf("%w: start a trade with give or take first", models.ErrWrongTurnState)
	}

	var candidates []string
	for _, id := range DetermineEligibleParties(env, draft.Take) {
		if id != player {
			candidates = append(candidates, id)
		}
	}
	switch {
	case recipient == player:
		d.mu.Unlock()
		return Table{}, fmt.Errorf("%w: you cannot trade with yourself", models.ErrNotTradable)
	case recipient != "":
		if !contains(candidates, recipient) {
			d.mu.Unlock()
			return Table{}, fmt.Errorf("%w: %s cannot give you what you asked for", models.ErrNotTradable, recipient)
		}
	case len(candidates) == 1:
		recipient = candidates[0]
	case len(candidates) == 0:
		d.mu.Unlock()
		return Table{}, fmt.Errorf("%w: nobody can give you what you asked for", models.ErrNotTradable)
	default:
		d.mu.Unlock()
		return Table{}, fmt.Errorf("%w: several players could take this trade, name one", models.ErrInvalidFormat)
	}

	t := draft.clone()
	t.Sender, t.Recipient = player, recipient
	if err := EnsureTradable(env, &t); err != nil {
		d.mu.Unlock()
		return Table{}, err
	}

	d.next++
	t.Index = d.next
	t.Open = true
	t.ExpiresAt = d.now().Add(d.ttl)
	idx := t.Index
	t.timer = time.AfterFunc(d.ttl, func() { d.Expire(idx) })
	d.offered[idx] = &t
	delete(d.drafts, player)
	out := t.clone()
	d.mu.Unlock()

	d.log.WithFields(logrus.Fields{"trade": idx, "sender": player, "recipient": recipient}).Info("trade offered")
	d.send([]note{{recipient, fmt.Sprintf("%s offers you %s. It expires in %s.", player, out, d.ttl)}})
	return out, nil
}

// lookup finds an open offer, closing it first if its deadline has passed.
// Must be called with mu held.
func (d *Desk) lookup(idx int, notes *[]note) (*Table, error) {
	t, ok := d.offered[idx]
	if !ok || !t.Open {
		return nil, fmt.Errorf("%w: no open trade #%d", models.ErrTradeClosed, idx)
	}
	if !d.now().Before(t.ExpiresAt) {
		d.close(t, "expired", notes)
		return nil, fmt.Errorf("%w: trade #%d expired", models.ErrTradeClosed, idx)
	}
	return t, nil
}

// close is the only way an offer leaves the registry. Must be called with mu held.
func (d *Desk) close(t *Table, reason string, notes *[]note) {
	t.Open = false
	if t.timer != nil {
		t.timer.Stop()
	}
	delete(d.offered, t.Index)
	if reason != "" {
		text := fmt.Sprintf("Trade #%d %s.", t.Index, reason)
		*notes = append(*notes, note{t.Sender, text}, note{t.Recipient, text})
	}
	d.log.WithFields(logrus.Fields{"trade": t.Index, "reason": reason}).Info("trade closed")
}

func (d *Desk) Table(idx int) (Table, error) {
	var notes []note
	d.mu.Lock()
	t, err := d.lookup(idx, &notes)
	var out Table
	if err == nil {
		out = t.clone()
	}
	d.mu.Unlock()
	d.send(notes)
	return out, err
}

// Offers lists open offers involving player, or every open offer when player
// is empty. Offers past their deadline are skipped but left for the timer or
// the next command to close.
func (d *Desk) Offers(player string) []Table {
	d.mu.Lock()
	defer d.mu.Unlock()
	idxs := make([]int, 0, len(d.offered))
	for idx := range d.offered {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	now := d.now()
	var out []Table
	for _, idx := range idxs {
		t := d.offered[idx]
		if !t.Open || !now.Before(t.ExpiresAt) || (player != "" && !t.Involves(player)) {
			continue
		}
		out = append(out, t.clone())
	}
	return out
}

// Accept settles offer idx on behalf of its recipient. A trade that no longer
// validates is closed.
func (d *Desk) Accept(env Env, player string, idx int) (Table, error) {
	var notes []note
	d.mu.Lock()
	t, err := d.lookup(idx, &notes)
	if err == nil && t.Recipient != player {
		err = fmt.Errorf("%w: only %s can accept trade #%d", models.ErrWrongTurnState, t.Recipient, idx)
		t = nil
	}
	var out Table
	if t != nil {
		if err = Conclude(env, t); err != nil {
			d.close(t, fmt.Sprintf("could not be completed (%v)", err), &notes)
		} else {
			d.close(t, "", &notes)
			d.log.WithFields(logrus.Fields{"trade": idx, "sender": t.Sender, "recipient": t.Recipient}).Info("trade settled")
		}
		out = t.clone()
	}
	d.mu.Unlock()
	d.send(notes)
	return out, err
}

func (d *Desk) Reject(player string, idx int) (Table, error) {
	return d.finish(idx, func(t *Table) error {
		if t.Recipient != player {
			return fmt.Errorf("%w: only %s can reject trade #%d", models.ErrWrongTurnState, t.Recipient, idx)
		}
		return nil
	}, fmt.Sprintf("was rejected by %s", player))
}

// Withdraw closes an offer on behalf of its sender.
func (d *Desk) Withdraw(player string, idx int) (Table, error) {
	return d.finish(idx, func(t *Table) error {
		if t.Sender != player {
			return fmt.Errorf("%w: only %s can close trade #%d", models.ErrWrongTurnState, t.Sender, idx)
		}
		return nil
	}, fmt.Sprintf("was closed by %s", player))
}

func (d *Desk) finish(idx int, allowed func(*Table) error, reason string) (Table, error) {
	var notes []note
	d.mu.Lock()
	t, err := d.lookup(idx, &notes)
	if err == nil {
		err = allowed(t)
	}
	var out Table
	if err == nil {
		d.close(t, reason, &notes)
		out = t.clone()
	}
	d.mu.Unlock()
	d.send(notes)
	return out, err
}

// Copy starts a counter-offer: a new draft for the recipient of idx with the
// two sides swapped.
func (d *Desk) Copy(player string, idx int) (Table, error) {
	return d.redraft(player, idx, func(t *Table) (Table, error) {
		if t.Recipient != player {
			return Table{}, fmt.Errorf("%w: only %s can copy trade #%d", models.ErrWrongTurnState, t.Recipient, idx)
		}
		c := t.clone()
		return Table{
			Owner:       player,
			Give:        c.Take,
			Take:        c.Give,
			GivingMoney: -c.GivingMoney,
		}, nil
	}, false)
}

// Recall pulls offer idx back into its sender's draft slot.
func (d *Desk) Recall(player string, idx int) (Table, error) {
	return d.redraft(player, idx, func(t *Table) (Table, error) {
		if t.Sender != player {
			return Table{}, fmt.Errorf("%w: only %s can recall trade #%d", models.ErrWrongTurnState, t.Sender, idx)
		}
		c := t.clone()
		return Table{
			Owner:       player,
			Give:        c.Give,
			Take:        c.Take,
			GivingMoney: c.GivingMoney,
		}, nil
	}, true)
}

func (d *Desk) redraft(player string, idx int, build func(*Table) (Table, error), closeOriginal bool) (Table, error) {
	var notes []note
	d.mu.Lock()
	defer func() { d.send(notes) }()
	defer d.mu.Unlock()

	if _, ok := d.drafts[player]; ok {
		return Table{}, fmt.Errorf("%w: close your current draft first", models.ErrWrongTurnState)
	}
	t, err := d.lookup(idx, &notes)
	if err != nil {
		return Table{}, err
	}
	draft, err := build(t)
	if err != nil {
		return Table{}, err
	}
	if closeOriginal {
		d.close(t, fmt.Sprintf("was recalled by %s", player), &notes)
	}
	d.drafts[player] = &draft
	return draft.clone(), nil
}

// Expire closes offer idx if it is still open. Firing after the offer was
// closed some other way does nothing.
func (d *Desk) Expire(idx int) bool {
	var notes []note
	d.mu.Lock()
	t, ok := d.offered[idx]
	expired := ok && t.Open
	if expired {
		d.close(t, "expired", &notes)
	}
	d.mu.Unlock()
	d.send(notes)
	return expired
}

// CloseInvolving drops the player's draft and every offer they are part of.
func (d *Desk) CloseInvolving(player string) {
	var notes []note
	d.mu.Lock()
	delete(d.drafts, player)
	for _, t := range d.offered {
		if t.Involves(player) {
			d.close(t, fmt.Sprintf("was cancelled because %s left", player), &notes)
		}
	}
	d.mu.Unlock()
	d.send(notes)
}
