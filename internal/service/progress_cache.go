package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ProgressSnapshot is the latest pipeline position for a running task.
// The pipeline writes snapshots between stages so polling clients see
// movement without waiting for the next task-row update.
type ProgressSnapshot struct {
	Progress int
	Message  string
}

type ProgressCache struct {
	cache *cache.Cache
}

func NewProgressCache() *ProgressCache {
	// Snapshots are short-lived by nature; an hour covers any sane
	// pipeline run, the janitor sweeps leftovers.
	return &ProgressCache{
		cache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (p *ProgressCache) Set(taskId uuid.UUID, progress int, message string) {
	p.cache.Set(taskId.String(), ProgressSnapshot{Progress: progress, Message: message}, cache.DefaultExpiration)
}

func (p *ProgressCache) Get(taskId uuid.UUID) (ProgressSnapshot, bool) {
	if x, found := p.cache.Get(taskId.String()); found {
		return x.(ProgressSnapshot), true
	}
	return ProgressSnapshot{}, false
}

func (p *ProgressCache) Delete(taskId uuid.UUID) {
	p.cache.Delete(taskId.String())
}
