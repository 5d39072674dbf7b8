package tetris

import "math/rand"

// bag deals pieces seven at a time, every kind exactly once per batch, so a
// drought of any kind never exceeds twelve pieces.
type bag struct {
	rng     *rand.Rand
	pending []int
}

func newBag(rng *rand.Rand) *bag {
	return &bag{rng: rng}
}

func (b *bag) Next() int {
	if len(b.pending) == 0 {
		b.refill()
	}
	kind := b.pending[0]
	b.pending = b.pending[1:]
	return kind
}

func (b *bag) refill() {
	batch := make([]int, PieceCount)
	for i := range batch {
		batch[i] = i
	}
	b.rng.Shuffle(len(batch), func(i, j int) {
		batch[i], batch[j] = batch[j], batch[i]
	})
	b.pending = batch
}
