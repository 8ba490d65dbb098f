package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_SetGet(t *testing.T) {
	tracker := NewTracker()

	tracker.Set(1, 10)
	tracker.Set(1, 30)
	tracker.Set(2, 100)

	assert.Equal(t, 30, tracker.Get(1))
	assert.Equal(t, 100, tracker.Get(2))
}

func TestTracker_UnknownIDReturnsZero(t *testing.T) {
	tracker := NewTracker()

	assert.Equal(t, 0, tracker.Get(42))
}

func TestTracker_ConcurrentAccess(t *testing.T) {
	tracker := NewTracker()

	var wg sync.WaitGroup
	for id := int64(0); id < 8; id++ {
		wg.Add(1)
		go func(reportID int64) {
			defer wg.Done()
			for p := 0; p <= 100; p++ {
				tracker.Set(reportID, p)
				_ = tracker.Get(reportID)
			}
		}(id)
	}
	wg.Wait()

	for id := int64(0); id < 8; id++ {
		assert.Equal(t, 100, tracker.Get(id))
	}
}
