package board

import (
	"math/rand"
	"sync"
	"time"

	"github.com/DedS3t/monopoly-engine/app/models"
)

// Deck is a two-pile card deck. Drawn cards go to the spent pile; once the
// live pile is empty the spent pile is shuffled back in.
type Deck struct {
	mu    sync.Mutex
	rng   *rand.Rand
	live  []models.Card
	spent []models.Card
}

func NewDeck(cards []models.Card, rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d := &Deck{rng: rng, spent: append([]models.Card(nil), cards...)}
	d.refill()
	return d
}

// refill must be called with mu held.
func (d *Deck) refill() {
	d.live = append(d.live, d.spent...)
	d.spent = d.spent[:0]
	d.rng.Shuffle(len(d.live), func(i, j int) {
		d.live[i], d.live[j] = d.live[j], d.live[i]
	})
}

// Draw never fails for a deck built from at least one card.
func (d *Deck) Draw() models.Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.live) == 0 {
		d.refill()
	}
	last := len(d.live) - 1
	card := d.live[last]
	d.live = d.live[:last]
	d.spent = append(d.spent, card)
	return card
}

func (d *Deck) Len() (live int, spent int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live), len(d.spent)
}
