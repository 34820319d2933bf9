package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nkengderick/biotec-api/internal/model"
)

// memCounters is an in-memory CounterRepository with the same increment
// semantics as the database-backed one.
type memCounters struct {
	mu     sync.Mutex
	values map[string]int64
}

func newMemCounters() *memCounters {
	return &memCounters{values: map[string]int64{}}
}

func (c *memCounters) Next(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key]++
	return c.values[key], nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMemberCodeAllocator_Format(t *testing.T) {
	// March 2025, counters pre-advanced so the next student is the 4th of
	// their type and the 10th coded member overall.
	counters := newMemCounters()
	counters.values["type:S"] = 3
	counters.values["members:all"] = 9

	allocator := NewMemberCodeAllocatorAt(fixedClock(time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)))
	code, err := allocator.Allocate(context.Background(), counters, model.UserCategoryStudent)

	assert.NoError(t, err)
	assert.Equal(t, "BTU2503S0410", code)
}

func TestMemberCodeAllocator_TypeLetters(t *testing.T) {
	tests := []struct {
		category model.UserCategory
		letter   string
	}{
		{model.UserCategoryStudent, "S"},
		{model.UserCategoryProfessional, "P"},
		{model.UserCategoryInstitutional, "I"},
		{model.UserCategoryOrganizational, "O"},
		{model.UserCategory("unknown"), "S"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.letter, TypeLetter(tt.category))
	}
}

func TestMemberCodeAllocator_SequencesAdvanceIndependently(t *testing.T) {
	counters := newMemCounters()
	allocator := NewMemberCodeAllocatorAt(fixedClock(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	first, err := allocator.Allocate(ctx, counters, model.UserCategoryStudent)
	assert.NoError(t, err)
	second, err := allocator.Allocate(ctx, counters, model.UserCategoryProfessional)
	assert.NoError(t, err)
	third, err := allocator.Allocate(ctx, counters, model.UserCategoryStudent)
	assert.NoError(t, err)

	// The member sequence counts everyone; each type sequence counts only
	// its own letter.
	assert.Equal(t, "BTU2503S0101", first)
	assert.Equal(t, "BTU2503P0102", second)
	assert.Equal(t, "BTU2503S0203", third)
}

func TestMemberCodeAllocator_ConcurrentAllocationsAreDistinct(t *testing.T) {
	const n = 50

	counters := newMemCounters()
	allocator := NewMemberCodeAllocatorAt(fixedClock(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))

	var wg sync.WaitGroup
	codes := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := allocator.Allocate(context.Background(), counters, model.UserCategoryStudent)
			assert.NoError(t, err)
			codes <- code
		}()
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]bool, n)
	for code := range codes {
		assert.False(t, seen[code], "duplicate member code %s", code)
		seen[code] = true
	}
	assert.Len(t, seen, n)
}
