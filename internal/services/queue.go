package services

import (
	"context"
	"sync"
)

// MutationQueue runs cart mutations one at a time per user, in arrival order,
// so overlapping add/remove/validate requests cannot interleave at the API.
// Different users never wait on each other.
type MutationQueue struct {
	mutex sync.Mutex
	lanes map[int]*lane
}

type lane struct {
	slot chan struct{}
	refs int
}

// NewMutationQueue creates an empty queue
func NewMutationQueue() *MutationQueue {
	return &MutationQueue{lanes: make(map[int]*lane)}
}

// Do runs fn once every earlier mutation for userID has finished. If ctx ends
// while waiting, fn is not run and the context error is returned.
func (q *MutationQueue) Do(ctx context.Context, userID int, fn func(ctx context.Context) error) error {
	l := q.join(userID)
	defer q.leave(userID, l)

	select {
	case l.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.slot }()

	return fn(ctx)
}

// Pending returns how many mutations for userID are running or waiting
func (q *MutationQueue) Pending(userID int) int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	if l, ok := q.lanes[userID]; ok {
		return l.refs
	}
	return 0
}

func (q *MutationQueue) join(userID int) *lane {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	l, ok := q.lanes[userID]
	if !ok {
		l = &lane{slot: make(chan struct{}, 1)}
		q.lanes[userID] = l
	}
	l.refs++
	return l
}

func (q *MutationQueue) leave(userID int, l *lane) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(q.lanes, userID)
	}
}
