package trade

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/DedS3t/monopoly-engine/platform/state"
)

const (
	mediterranean = 1
	baltic        = 3
	reading       = 5
	stJames       = 16
	tennessee     = 18
	newYork       = 19
)

type inbox struct {
	mu   sync.Mutex
	msgs map[string][]string
}

func (i *inbox) notify(player, text string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.msgs == nil {
		i.msgs = map[string][]string{}
	}
	i.msgs[player] = append(i.msgs[player], text)
}

func (i *inbox) count(player string) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.msgs[player])
}

func newEnv(t *testing.T) Env {
	t.Helper()
	s := state.NewMemoryStore()
	players := []string{"alice", "bob", "carol"}
	for _, id := range players {
		require.NoError(t, s.Create(id, models.NewPlayerState(1500, "red")))
	}
	return Env{Board: board.LoadDefault(), Store: s, Players: players}
}

func own(t *testing.T, env Env, owner string, positions ...int) {
	t.Helper()
	for _, p := range positions {
		require.NoError(t, env.Board.SetOwner(p, owner))
	}
}

func moneyOf(t *testing.T, env Env, id string) int {
	t.Helper()
	p, err := env.Store.Get(id)
	require.NoError(t, err)
	return p.Money
}

func setMoney(t *testing.T, env Env, id string, amount int) {
	t.Helper()
	_, err := env.Store.Update(id, func(p models.PlayerState) (models.PlayerState, error) {
		p.Money = amount
		return p, nil
	})
	require.NoError(t, err)
}

func giveCard(t *testing.T, env Env, id string, deck models.DeckType) {
	t.Helper()
	_, err := env.Store.Update(id, func(p models.PlayerState) (models.PlayerState, error) {
		p.JailCards[deck] = true
		return p, nil
	})
	require.NoError(t, err)
}

func offered(sender, recipient string) *Table {
	return &Table{Owner: sender, Sender: sender, Recipient: recipient, Open: true}
}

func TestToggle(t *testing.T) {
	var tb Table

	tb.give(models.PropertyItem(baltic, false))
	tb.give(models.JailCardItem())
	assert.Len(t, tb.Give, 2)

	tb.give(models.PropertyItem(baltic, true))
	require.Len(t, tb.Give, 2)
	assert.True(t, tb.Give[0].KeepMortgaged)

	tb.give(models.PropertyItem(baltic, true))
	assert.Equal(t, models.TradeItems{models.JailCardItem()}, tb.Give)

	tb.give(models.JailCardItem())
	assert.Empty(t, tb.Give)

	tb.give(models.MoneyItem(100))
	tb.give(models.MoneyItem(150))
	assert.Equal(t, 150, tb.GivingMoney)
	tb.take(models.MoneyItem(40))
	assert.Equal(t, -40, tb.GivingMoney)
	assert.Empty(t, tb.Take)
}

func TestDetermineEligibleParties(t *testing.T) {
	env := newEnv(t)
	own(t, env, "bob", baltic, reading)
	giveCard(t, env, "bob", models.DeckChance)
	giveCard(t, env, "carol", models.DeckChest)

	assert.Equal(t, []string{"alice", "bob", "carol"}, DetermineEligibleParties(env, nil))
	assert.Equal(t, []string{"bob"}, DetermineEligibleParties(env, models.TradeItems{models.PropertyItem(baltic, false)}))
	assert.Equal(t, []string{"bob", "carol"}, DetermineEligibleParties(env, models.TradeItems{models.JailCardItem()}))
	assert.Equal(t, []string{"bob"}, DetermineEligibleParties(env, models.TradeItems{
		models.JailCardItem(), models.PropertyItem(reading, false),
	}))
	assert.Empty(t, DetermineEligibleParties(env, models.TradeItems{
		models.PropertyItem(baltic, false), models.PropertyItem(mediterranean, false),
	}))
	assert.Empty(t, DetermineEligibleParties(env, models.TradeItems{models.PropertyItem(0, false)}))
}

func TestEnsureTradablePartialGroupWithHouses(t *testing.T) {
	env := newEnv(t)
	own(t, env, "alice", stJames, tennessee, newYork)
	require.NoError(t, env.Board.SetHouses(tennessee, 2))

	partial := offered("alice", "bob")
	partial.Give = models.TradeItems{models.PropertyItem(stJames, false), models.PropertyItem(tennessee, false)}
	assert.ErrorIs(t, EnsureTradable(env, partial), models.ErrNotTradable)

	// the same split requested from the other side is refused as well
	asked := offered("bob", "alice")
	asked.Take = models.TradeItems{models.PropertyItem(stJames, false), models.PropertyItem(tennessee, false)}
	assert.ErrorIs(t, EnsureTradable(env, asked), models.ErrNotTradable)

	whole := offered("alice", "bob")
	whole.Give = append(partial.Give, models.PropertyItem(newYork, false))
	assert.NoError(t, EnsureTradable(env, whole))
}

func TestEnsureTradablePartialGroupWithoutHouses(t *testing.T) {
	env := newEnv(t)
	own(t, env, "alice", stJames, tennessee, newYork)

	give := offered("alice", "bob")
	give.Give = models.TradeItems{models.PropertyItem(stJames, false)}
	assert.NoError(t, EnsureTradable(env, give))

	take := offered("bob", "alice")
	take.Take = models.TradeItems{models.PropertyItem(stJames, false)}
	assert.NoError(t, EnsureTradable(env, take))
}

func TestEnsureTradableEligibility(t *testing.T) {
	env := newEnv(t)
	own(t, env, "bob", baltic)

	tb := offered("alice", "carol")
	tb.Take = models.TradeItems{models.PropertyItem(baltic, false)}
	assert.ErrorIs(t, EnsureTradable(env, tb), models.ErrNotTradable)

	tb = offered("alice", "bob")
	tb.Give = models.TradeItems{models.PropertyItem(baltic, false)}
	assert.ErrorIs(t, EnsureTradable(env, tb), models.ErrNotTradable)

	tb = offered("alice", "alice")
	assert.ErrorIs(t, EnsureTradable(env, tb), models.ErrNotTradable)

	tb = offered("alice", "dave")
	assert.ErrorIs(t, EnsureTradable(env, tb), models.ErrNotTradable)

	draft := &Table{Owner: "alice"}
	assert.ErrorIs(t, EnsureTradable(env, draft), models.ErrNotTradable)
}

func TestEnsureTradableBalanceFloor(t *testing.T) {
	env := newEnv(t)
	setMoney(t, env, "alice", 100)

	tb := offered("alice", "bob")
	tb.GivingMoney = 100
	assert.NoError(t, EnsureTradable(env, tb))
	tb.GivingMoney = 101
	assert.ErrorIs(t, EnsureTradable(env, tb), models.ErrNotTradable)

	// bob asks alice for more than she has
	tb = offered("bob", "alice")
	tb.GivingMoney = -101
	assert.ErrorIs(t, EnsureTradable(env, tb), models.ErrNotTradable)

	// a player in debt may receive but not pay anything more
	setMoney(t, env, "alice", -50)
	own(t, env, "bob", mediterranean)
	require.NoError(t, env.Board.SetMortgaged(mediterranean, true))

	tb = offered("bob", "alice")
	tb.Give = models.TradeItems{models.PropertyItem(mediterranean, true)}
	assert.ErrorIs(t, EnsureTradable(env, tb), models.ErrNotTradable)

	tb.GivingMoney = 3
	assert.NoError(t, EnsureTradable(env, tb))
}

func TestConcludeMortgageFees(t *testing.T) {
	env := newEnv(t)
	own(t, env, "alice", mediterranean, baltic)
	require.NoError(t, env.Board.SetMortgaged(mediterranean, true))
	require.NoError(t, env.Board.SetMortgaged(baltic, true))

	tb := offered("alice", "bob")
	tb.Give = models.TradeItems{
		models.PropertyItem(mediterranean, true),
		models.PropertyItem(baltic, false),
	}
	tb.GivingMoney = -100

	require.NoError(t, Conclude(env, tb))
	assert.False(t, tb.Open)

	med, _ := env.Board.Space(mediterranean)
	bal, _ := env.Board.Space(baltic)
	assert.Equal(t, "bob", med.Owner)
	assert.True(t, med.Mortgaged)
	assert.Equal(t, "bob", bal.Owner)
	assert.False(t, bal.Mortgaged)

	// mortgage 30 kept: 3, mortgage 30 lifted: 33
	assert.Equal(t, 1600, moneyOf(t, env, "alice"))
	assert.Equal(t, 1500-3-33-100, moneyOf(t, env, "bob"))
}

func TestConcludeSwapsEverything(t *testing.T) {
	env := newEnv(t)
	own(t, env, "alice", reading)
	own(t, env, "bob", baltic)
	giveCard(t, env, "bob", models.DeckChest)

	tb := offered("alice", "bob")
	tb.Give = models.TradeItems{models.PropertyItem(reading, false)}
	tb.Take = models.TradeItems{models.PropertyItem(baltic, false), models.JailCardItem()}
	tb.GivingMoney = 50

	require.NoError(t, Conclude(env, tb))

	r, _ := env.Board.Space(reading)
	b, _ := env.Board.Space(baltic)
	assert.Equal(t, "bob", r.Owner)
	assert.Equal(t, "alice", b.Owner)

	alice, _ := env.Store.Get("alice")
	bob, _ := env.Store.Get("bob")
	assert.True(t, alice.JailCards[models.DeckChest])
	assert.False(t, bob.HasJailCard())
	assert.Equal(t, 1450, alice.Money)
	assert.Equal(t, 1550, bob.Money)
}

func TestConcludeRevalidates(t *testing.T) {
	env := newEnv(t)
	own(t, env, "bob", baltic)

	tb := offered("alice", "bob")
	tb.Take = models.TradeItems{models.PropertyItem(baltic, false)}
	tb.GivingMoney = 200
	require.NoError(t, EnsureTradable(env, tb))

	own(t, env, "carol", baltic)
	assert.ErrorIs(t, Conclude(env, tb), models.ErrNotTradable)
	assert.True(t, tb.Open)
	assert.Equal(t, 1500, moneyOf(t, env, "alice"))
	assert.Equal(t, 1500, moneyOf(t, env, "bob"))
}

// flakyStore fails the failAt-th update of one player once.
type flakyStore struct {
	state.Store
	failOn string
	failAt int
	calls  int
}

func (s *flakyStore) Update(id string, fn state.UpdateFunc) (models.PlayerState, error) {
	if id == s.failOn {
		s.calls++
		if s.calls == s.failAt {
			return models.PlayerState{}, errors.New("connection reset")
		}
	}
	return s.Store.Update(id, fn)
}

func TestConcludeRollsBackOnStoreError(t *testing.T) {
	env := newEnv(t)
	own(t, env, "alice", reading)
	own(t, env, "bob", baltic)
	require.NoError(t, env.Board.SetMortgaged(reading, true))
	giveCard(t, env, "bob", models.DeckChest)
	// bob's second update moves money, after properties and the card changed hands
	env.Store = &flakyStore{Store: env.Store, failOn: "bob", failAt: 2}

	tb := offered("alice", "bob")
	tb.Give = models.TradeItems{models.PropertyItem(reading, true)}
	tb.Take = models.TradeItems{models.PropertyItem(baltic, false), models.JailCardItem()}
	tb.GivingMoney = 50

	assert.Error(t, Conclude(env, tb))
	assert.True(t, tb.Open)

	r, _ := env.Board.Space(reading)
	b, _ := env.Board.Space(baltic)
	assert.Equal(t, "alice", r.Owner)
	assert.True(t, r.Mortgaged)
	assert.Equal(t, "bob", b.Owner)

	alice, _ := env.Store.Get("alice")
	bob, _ := env.Store.Get("bob")
	assert.False(t, alice.HasJailCard())
	assert.True(t, bob.JailCards[models.DeckChest])
	assert.Equal(t, 1500, alice.Money)
	assert.Equal(t, 1500, bob.Money)
}

func TestConcludeJailCardNeedsFreeSlot(t *testing.T) {
	env := newEnv(t)
	giveCard(t, env, "alice", models.DeckChance)
	giveCard(t, env, "bob", models.DeckChance)

	tb := offered("alice", "bob")
	tb.Give = models.TradeItems{models.JailCardItem()}
	assert.ErrorIs(t, Conclude(env, tb), models.ErrNotTradable)

	giveCard(t, env, "alice", models.DeckChest)
	require.NoError(t, Conclude(env, tb))
	bob, _ := env.Store.Get("bob")
	assert.Equal(t, [2]bool{true, true}, bob.JailCards)
}

func TestNoSolventPlayerPushedNegative(t *testing.T) {
	env := newEnv(t)
	own(t, env, "alice", mediterranean, baltic, reading)
	for _, p := range []int{mediterranean, baltic, reading} {
		require.NoError(t, env.Board.SetMortgaged(p, true))
	}
	for _, bobMoney := range []int{0, 10, 50, 150, 300} {
		for _, giving := range []int{-200, -50, 0, 50} {
			setMoney(t, env, "bob", bobMoney)
			tb := offered("alice", "bob")
			tb.Give = models.TradeItems{models.PropertyItem(reading, false), models.PropertyItem(baltic, true)}
			tb.GivingMoney = giving
			if err := Conclude(env, tb); err == nil {
				assert.GreaterOrEqual(t, moneyOf(t, env, "bob"), 0, "bob=%d giving=%d", bobMoney, giving)
				assert.GreaterOrEqual(t, moneyOf(t, env, "alice"), 0)
				// hand everything back for the next round
				own(t, env, "alice", reading, baltic)
				require.NoError(t, env.Board.SetMortgaged(reading, true))
				require.NoError(t, env.Board.SetMortgaged(baltic, true))
				setMoney(t, env, "alice", 1500)
			}
		}
	}
}

func newDesk(t *testing.T, ttl time.Duration) (*Desk, *inbox) {
	t.Helper()
	in := &inbox{}
	return NewDesk(ttl, in.notify, nil), in
}

func TestDeskOfferResolvesRecipient(t *testing.T) {
	env := newEnv(t)
	own(t, env, "bob", baltic)
	d, in := newDesk(t, time.Minute)

	_, err := d.Offer(env, "alice", "")
	assert.ErrorIs(t, err, models.ErrWrongTurnState)

	d.Give("alice", models.MoneyItem(100))
	_, err = d.Offer(env, "alice", "")
	assert.ErrorIs(t, err, models.ErrInvalidFormat, "bob and carol could both accept")

	_, err = d.Offer(env, "alice", "alice")
	assert.ErrorIs(t, err, models.ErrNotTradable)

	d.Take("alice", models.PropertyItem(baltic, false))
	tb, err := d.Offer(env, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, 1, tb.Index)
	assert.Equal(t, "alice", tb.Sender)
	assert.Equal(t, "bob", tb.Recipient)
	assert.True(t, tb.Open)
	assert.Equal(t, 1, in.count("bob"))

	_, ok := d.Draft("alice")
	assert.False(t, ok)
	assert.Len(t, d.Offers(""), 1)
	assert.Len(t, d.Offers("bob"), 1)
	assert.Empty(t, d.Offers("carol"))
}

func TestDeskOfferExplicitRecipient(t *testing.T) {
	env := newEnv(t)
	d, _ := newDesk(t, time.Minute)

	d.Give("alice", models.MoneyItem(10))
	tb, err := d.Offer(env, "alice", "carol")
	require.NoError(t, err)
	assert.Equal(t, "carol", tb.Recipient)
}

func TestDeskAccept(t *testing.T) {
	env := newEnv(t)
	own(t, env, "bob", baltic)
	d, _ := newDesk(t, time.Minute)

	d.Give("alice", models.MoneyItem(100))
	d.Take("alice", models.PropertyItem(baltic, false))
	tb, err := d.Offer(env, "alice", "")
	require.NoError(t, err)

	_, err = d.Accept(env, "alice", tb.Index)
	assert.ErrorIs(t, err, models.ErrWrongTurnState)

	done, err := d.Accept(env, "bob", tb.Index)
	require.NoError(t, err)
	assert.False(t, done.Open)

	s, _ := env.Board.Space(baltic)
	assert.Equal(t, "alice", s.Owner)
	assert.Equal(t, 1400, moneyOf(t, env, "alice"))
	assert.Equal(t, 1600, moneyOf(t, env, "bob"))

	_, err = d.Accept(env, "bob", tb.Index)
	assert.ErrorIs(t, err, models.ErrTradeClosed)
	assert.False(t, d.Expire(tb.Index), "timer firing after settlement is a no-op")
}

func TestDeskAcceptStaleTradeCloses(t *testing.T) {
	env := newEnv(t)
	own(t, env, "bob", baltic)
	d, in := newDesk(t, time.Minute)

	d.Take("alice", models.PropertyItem(baltic, false))
	tb, err := d.Offer(env, "alice", "")
	require.NoError(t, err)

	own(t, env, "carol", baltic)
	_, err = d.Accept(env, "bob", tb.Index)
	assert.ErrorIs(t, err, models.ErrNotTradable)
	assert.Equal(t, 1, in.count("alice"))

	_, err = d.Table(tb.Index)
	assert.ErrorIs(t, err, models.ErrTradeClosed)
}

func TestDeskRejectAndWithdraw(t *testing.T) {
	env := newEnv(t)
	d, in := newDesk(t, time.Minute)

	d.Give("alice", models.MoneyItem(10))
	first, err := d.Offer(env, "alice", "bob")
	require.NoError(t, err)

	_, err = d.Reject("carol", first.Index)
	assert.ErrorIs(t, err, models.ErrWrongTurnState)
	_, err = d.Reject("bob", first.Index)
	require.NoError(t, err)
	assert.Equal(t, 1, in.count("alice"))

	d.Give("alice", models.MoneyItem(10))
	second, err := d.Offer(env, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Index)

	_, err = d.Withdraw("bob", second.Index)
	assert.ErrorIs(t, err, models.ErrWrongTurnState)
	_, err = d.Withdraw("alice", second.Index)
	require.NoError(t, err)
	assert.Empty(t, d.Offers(""))
}

func TestDeskExpiry(t *testing.T) {
	env := newEnv(t)
	d, in := newDesk(t, 20*time.Millisecond)

	d.Give("alice", models.MoneyItem(10))
	tb, err := d.Offer(env, "alice", "bob")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return in.count("alice") == 1 && in.count("bob") == 2
	}, time.Second, 5*time.Millisecond)

	_, err = d.Table(tb.Index)
	assert.ErrorIs(t, err, models.ErrTradeClosed)
	assert.False(t, d.Expire(tb.Index))
}

func TestDeskDeadlineCheckedOnAccess(t *testing.T) {
	env := newEnv(t)
	d, in := newDesk(t, time.Hour)

	d.Give("alice", models.MoneyItem(10))
	tb, err := d.Offer(env, "alice", "bob")
	require.NoError(t, err)

	d.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = d.Accept(env, "bob", tb.Index)
	assert.ErrorIs(t, err, models.ErrTradeClosed)
	assert.Equal(t, 1500, moneyOf(t, env, "alice"))
	assert.Equal(t, 1, in.count("alice"))
}

func TestDeskOffersLeavesExpiredOpen(t *testing.T) {
	env := newEnv(t)
	d, in := newDesk(t, time.Hour)

	d.Give("alice", models.MoneyItem(10))
	tb, err := d.Offer(env, "alice", "bob")
	require.NoError(t, err)

	d.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Empty(t, d.Offers(""))
	assert.Equal(t, 0, in.count("alice"), "listing sends nothing")
	assert.Equal(t, 1, in.count("bob"))

	_, err = d.Table(tb.Index)
	assert.ErrorIs(t, err, models.ErrTradeClosed)
	assert.Equal(t, 1, in.count("alice"))
}

func TestDeskCopyAndRecall(t *testing.T) {
	env := newEnv(t)
	own(t, env, "alice", reading)
	own(t, env, "bob", baltic)
	d, _ := newDesk(t, time.Minute)

	d.Give("alice", models.PropertyItem(reading, false))
	d.Take("alice", models.PropertyItem(baltic, false))
	d.Give("alice", models.MoneyItem(25))
	tb, err := d.Offer(env, "alice", "")
	require.NoError(t, err)

	_, err = d.Copy("alice", tb.Index)
	assert.ErrorIs(t, err, models.ErrWrongTurnState)

	counter, err := d.Copy("bob", tb.Index)
	require.NoError(t, err)
	assert.Equal(t, "bob", counter.Owner)
	assert.Equal(t, tb.Take, counter.Give)
	assert.Equal(t, tb.Give, counter.Take)
	assert.Equal(t, -25, counter.GivingMoney)
	assert.False(t, counter.Offered())

	_, err = d.Copy("bob", tb.Index)
	assert.ErrorIs(t, err, models.ErrWrongTurnState, "bob already has a draft")

	_, stillOpen := d.Table(tb.Index)
	assert.NoError(t, stillOpen)

	recalled, err := d.Recall("alice", tb.Index)
	require.NoError(t, err)
	assert.Equal(t, tb.Give, recalled.Give)
	assert.Equal(t, 25, recalled.GivingMoney)

	_, err = d.Table(tb.Index)
	assert.ErrorIs(t, err, models.ErrTradeClosed)
	draft, ok := d.Draft("alice")
	require.True(t, ok)
	assert.Equal(t, recalled.Take, draft.Take)
}

func TestDeskCloseInvolving(t *testing.T) {
	env := newEnv(t)
	d, in := newDesk(t, time.Minute)

	d.Give("alice", models.MoneyItem(10))
	_, err := d.Offer(env, "alice", "bob")
	require.NoError(t, err)
	d.Give("carol", models.MoneyItem(10))
	_, err = d.Offer(env, "carol", "alice")
	require.NoError(t, err)
	d.Give("bob", models.MoneyItem(10))

	d.CloseInvolving("bob")
	offers := d.Offers("")
	require.Len(t, offers, 1)
	assert.Equal(t, "carol", offers[0].Sender)
	_, ok := d.Draft("bob")
	assert.False(t, ok)
	assert.GreaterOrEqual(t, in.count("alice"), 1)
}

func TestParseItem(t *testing.T) {
	b := board.LoadDefault()

	item, err := ParseItem(b, []string{"money", "200"})
	require.NoError(t, err)
	assert.Equal(t, models.MoneyItem(200), item)

	item, err = ParseItem(b, []string{"$75"})
	require.NoError(t, err)
	assert.Equal(t, models.MoneyItem(75), item)

	item, err = ParseItem(b, []string{"jailcard"})
	require.NoError(t, err)
	assert.Equal(t, models.JailCardItem(), item)

	item, err = ParseItem(b, []string{"a3", "keep"})
	require.NoError(t, err)
	assert.Equal(t, models.PropertyItem(baltic, true), item)

	_, err = ParseItem(b, []string{"money", "-5"})
	assert.ErrorIs(t, err, models.ErrInvalidFormat)
	_, err = ParseItem(b, nil)
	assert.ErrorIs(t, err, models.ErrInvalidFormat)
	_, err = ParseItem(b, []string{"A0"})
	assert.ErrorIs(t, err, models.ErrNotAProperty)
	_, err = ParseItem(b, []string{"F1"})
	assert.ErrorIs(t, err, models.ErrOutOfRange)
	_, err = ParseItem(b, []string{"A3", "please"})
	assert.ErrorIs(t, err, models.ErrInvalidFormat)
}
