// Package selector picks reference photos at random for an exercise category
package selector

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/ayoisaiah/sketch/internal/models"
)

// PhotoLister returns every photo tagged with a category.
type PhotoLister interface {
	PhotosByTag(ctx context.Context, tagID uint64) ([]models.Photo, error)
}

// Selector chooses photos uniformly at random.
type Selector struct {
	photos PhotoLister
	rnd    *rand.Rand
	mu     sync.Mutex
}

// New returns a selector backed by photos. If rnd is nil, a randomly seeded
// source is used.
func New(photos PhotoLister, rnd *rand.Rand) *Selector {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Selector{
		photos: photos,
		rnd:    rnd,
	}
}

// Pick returns a random photo tagged with tagID, avoiding exclude when another
// candidate exists. When the category holds only the excluded photo, that
// photo is returned. A nil photo and nil error mean the category is empty.
func (s *Selector) Pick(
	ctx context.Context,
	tagID uint64,
	exclude *uint64,
) (*models.Photo, error) {
	all, err := s.photos.PhotosByTag(ctx, tagID)
	if err != nil {
		return nil, err
	}

	candidates := all

	if exclude != nil {
		candidates = make([]models.Photo, 0, len(all))

		for i := range all {
			if all[i].ID != *exclude {
				candidates = append(candidates, all[i])
			}
		}

		if len(candidates) == 0 {
			candidates = all
		}
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	i := s.rnd.IntN(len(candidates))
	s.mu.Unlock()

	photo := candidates[i]

	return &photo, nil
}
