package usecases

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

type memberKey struct {
	guildID snowflake.ID
	userID  snowflake.ID
}

type memberLock struct {
	sem  chan struct{}
	refs int
}

// memberLocks serializes work per guild member. Idle locks are dropped.
type memberLocks struct {
	mu    sync.Mutex
	locks map[memberKey]*memberLock
}

func newMemberLocks() *memberLocks {
	return &memberLocks{locks: make(map[memberKey]*memberLock)}
}

// lock blocks until the member is free or ctx is done. On success it returns
// the matching unlock function.
func (l *memberLocks) lock(ctx context.Context, guildID, userID snowflake.ID) (func(), error) {
	key := memberKey{guildID: guildID, userID: userID}

	l.mu.Lock()
	ml, ok := l.locks[key]
	if !ok {
		ml = &memberLock{sem: make(chan struct{}, 1)}
		l.locks[key] = ml
	}
	ml.refs++
	l.mu.Unlock()

	select {
	case ml.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, ml)
		return nil, ctx.Err()
	}

	return func() {
		<-ml.sem
		l.release(key, ml)
	}, nil
}

func (l *memberLocks) release(key memberKey, ml *memberLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ml.refs--
	if ml.refs == 0 {
		delete(l.locks, key)
	}
}

// size returns the number of members currently holding or awaiting a lock.
func (l *memberLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.locks)
}
