package evolve

import (
	"math/rand/v2"
	"sort"

	"github.com/jsphweid/fugue/model"
)

// TournamentSelect samples size indices with replacement and walks them
// from fittest to least fit, taking each with probability p. When none is
// taken the least fit sampled index wins.
func TournamentSelect(rng *rand.Rand, fitness []float64, size int, p float64) int {
	idx := make([]int, size)
	for i := range idx {
		idx[i] = rng.IntN(len(fitness))
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return fitness[idx[a]] > fitness[idx[b]]
	})
	for i := 0; i < size-1; i++ {
		if rng.Float64() < p {
			return idx[i]
		}
	}
	return idx[size-1]
}

// Select fills a new population of the same size by repeated tournaments.
// Winners are copied.
func Select(rng *rand.Rand, pop model.Population, fitness []float64, size int, p float64) model.Population {
	next := make(model.Population, len(pop))
	for i := range next {
		next[i] = pop[TournamentSelect(rng, fitness, size, p)].Clone()
	}
	return next
}

// InsertElite overwrites the first copies slots with copies of best.
func InsertElite(pop model.Population, best model.Track, copies int) model.Population {
	for i := 0; i < copies && i < len(pop); i++ {
		pop[i] = best.Clone()
	}
	return pop
}
