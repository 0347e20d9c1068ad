package quiz

import (
	"math/rand"
	"sync"
	"time"

	"github.com/otabek-dev/poytaxt_bot/internal/models"
	"github.com/otabek-dev/poytaxt_bot/pkg/errors"
)

// Question is one generated multiple-choice question. Options holds the
// shuffled answers and always contains CorrectAnswer exactly once.
type Question struct {
	Country       string
	CorrectAnswer string
	Options       []string
}

// Generator builds questions from the reference set. The random source is
// injectable so tests can run deterministically.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator() *Generator {
	return NewGeneratorWithSource(rand.NewSource(time.Now().UnixNano()))
}

func NewGeneratorWithSource(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// NextQuestion picks a random fact as the correct pair and samples up to
// distractors wrong capitals without replacement. With a small reference set
// the option list simply shrinks; that is not an error.
func (g *Generator) NextQuestion(facts []models.CapitalFact, distractors int) (*Question, error) {
	if len(facts) == 0 {
		return nil, errors.New(errors.ErrCodeNoData, "reference set is empty")
	}
	if distractors < 0 {
		distractors = 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	correct := facts[g.rng.Intn(len(facts))]

	pool := make([]string, 0, len(facts)-1)
	for _, f := range facts {
		if f.Capital != correct.Capital {
			pool = append(pool, f.Capital)
		}
	}

	k := distractors
	if k > len(pool) {
		k = len(pool)
	}

	options := make([]string, 0, k+1)
	for _, idx := range g.rng.Perm(len(pool))[:k] {
		options = append(options, pool[idx])
	}
	options = append(options, correct.Capital)

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return &Question{
		Country:       correct.Country,
		CorrectAnswer: correct.Capital,
		Options:       options,
	}, nil
}
