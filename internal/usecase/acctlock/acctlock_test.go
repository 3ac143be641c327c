package acctlock

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRegistry_SerializesSameAccount(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := r.Lock(userID)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestRegistry_DifferentAccountsDoNotBlock(t *testing.T) {
	r := NewRegistry()

	unlockA := r.Lock(uuid.New())
	defer unlockA()

	// Locking a second account must not deadlock while the first is held.
	done := make(chan struct{})
	go func() {
		unlockB := r.Lock(uuid.New())
		unlockB()
		close(done)
	}()
	<-done
}

func TestRegistry_ReentryAfterUnlock(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()

	unlock := r.Lock(userID)
	unlock()

	unlock = r.Lock(userID)
	unlock()
}
