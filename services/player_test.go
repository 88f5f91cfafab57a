package services

import (
	"sync"
	"testing"
)

func TestPlayerLockIsPerPlayer(t *testing.T) {
	svc := &PlayerService{}
	if svc.LockPlayer("p1") != svc.LockPlayer("p1") {
		t.Error("requests for one player must share a lock")
	}
	if svc.LockPlayer("p1") == svc.LockPlayer("p2") {
		t.Error("different players must not share a lock")
	}
}

func TestPlayerLockRegistrySafeUnderConcurrency(t *testing.T) {
	svc := &PlayerService{}

	locks := make([]*sync.Mutex, 32)
	var wg sync.WaitGroup
	for i := range locks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			locks[i] = svc.LockPlayer("p1")
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(locks); i++ {
		if locks[i] != locks[0] {
			t.Fatal("concurrent registrations produced distinct locks for one player")
		}
	}
}
