package game

import (
	crand "crypto/rand"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
)

var errDeckEmpty = errors.New("deck_empty")

// Shuffler permutes n elements in place. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// NewRandomShuffler returns a Fisher-Yates shuffler over a ChaCha8 stream
// seeded from the OS entropy source.
func NewRandomShuffler() Shuffler {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic("game: read shuffle seed: " + err.Error())
	}
	return &lockedRand{r: rand.New(rand.NewChaCha8(seed))}
}

func NewSeededShuffler(seed uint64) Shuffler {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Deck is the ordered hidden stack of role tokens. The top is index 0.
type Deck struct {
	cards []Role
}

func NewDeck(rs RoleSet, sh Shuffler) Deck {
	cards := make([]Role, 0, CopiesPerRole*len(rs.roles))
	for _, r := range rs.roles {
		for i := 0; i < CopiesPerRole; i++ {
			cards = append(cards, r)
		}
	}
	d := Deck{cards: cards}
	d.shuffle(sh)
	return d
}

// NewDeckFrom builds a deck in the given order without shuffling.
func NewDeckFrom(roles ...Role) Deck {
	return Deck{cards: slices.Clone(roles)}
}

func (d *Deck) Len() int {
	return len(d.cards)
}

func (d *Deck) Count(r Role) int {
	n := 0
	for _, c := range d.cards {
		if c == r {
			n++
		}
	}
	return n
}

func (d *Deck) Draw() (Role, error) {
	if len(d.cards) == 0 {
		return RoleNone, errDeckEmpty
	}
	r := d.cards[0]
	d.cards = d.cards[1:]
	return r, nil
}

// Peek returns up to n roles from the top without removing them.
func (d *Deck) Peek(n int) []Role {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	return slices.Clone(d.cards[:n])
}

// Return puts roles back and reshuffles so the returned positions are not observable.
func (d *Deck) Return(sh Shuffler, roles ...Role) {
	d.cards = append(d.cards, roles...)
	d.shuffle(sh)
}

// Swap returns r to the deck, reshuffles, and draws a replacement.
func (d *Deck) Swap(sh Shuffler, r Role) (Role, error) {
	d.Return(sh, r)
	return d.Draw()
}

func (d *Deck) shuffle(sh Shuffler) {
	sh.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d Deck) clone() Deck {
	return Deck{cards: slices.Clone(d.cards)}
}
