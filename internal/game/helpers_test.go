package game

import (
	"context"
	"errors"
)

// fixedRoller replays scripted draws. Once exhausted it returns 0 for Intn
// and 0.99 for Float64.
type fixedRoller struct {
	ints   []int
	floats []float64
}

func (r *fixedRoller) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *fixedRoller) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

var errDiskOnFire = errors.New("disk on fire")

// failingStore fails every operation
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errDiskOnFire
}

func (failingStore) Set(ctx context.Context, key, value string) error {
	return errDiskOnFire
}

func (failingStore) Delete(ctx context.Context, key string) error {
	return errDiskOnFire
}

type chaosRecorder struct {
	levels []int
	tiers  []int
}

func (c *chaosRecorder) OnChaosChange(level, tier int) {
	c.levels = append(c.levels, level)
	c.tiers = append(c.tiers, tier)
}
