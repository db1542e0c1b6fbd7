package studylist

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// Orderer reorders vocabulary before a list is built.
type Orderer struct {
	rnd *rand.Rand
}

// NewOrderer returns an Orderer. A zero seed uses the current time.
func NewOrderer(seed int64) *Orderer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Orderer{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle returns a shuffled copy of vocabs. The input is not modified.
func (o *Orderer) Shuffle(vocabs []model.Vocab) []model.Vocab {
	out := append([]model.Vocab(nil), vocabs...)
	o.rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
