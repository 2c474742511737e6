package spawn

import "time"

// Scheduler assigns staggered appearance and expiry instants.
type Scheduler struct {
	minLifespan time.Duration
	maxLifespan time.Duration
	stagger     time.Duration
}

// NewScheduler builds a scheduler from cfg. cfg must be valid.
func NewScheduler(cfg Config) *Scheduler {
	return &Scheduler{
		minLifespan: cfg.MinLifespan,
		maxLifespan: cfg.MaxLifespan,
		stagger:     cfg.StaggerWindow,
	}
}

// Schedule draws a stagger offset in whole seconds from [-W, +W] and a
// lifespan in whole seconds from [min, max]. expires is always after appears.
func (s *Scheduler) Schedule(rng Rand, ref time.Time) (appears, expires time.Time) {
	w := int(s.stagger / time.Second)
	offset := time.Duration(rng.IntN(2*w+1)-w) * time.Second

	minSec := int(s.minLifespan / time.Second)
	maxSec := int(s.maxLifespan / time.Second)
	lifespan := time.Duration(minSec+rng.IntN(maxSec-minSec+1)) * time.Second

	appears = ref.Add(offset)
	return appears, appears.Add(lifespan)
}
