package memory

import (
	"context"
	"sync"
)

type txKey struct{}

// unitOfWork records the session locks taken inside one RunInTx call.
type unitOfWork struct {
	store *Store

	mu      sync.Mutex
	release []func()
	held    map[string]struct{}
}

// TxManager scopes a unit of work against one Store. The first repository
// call for a session id inside fn locks that session until fn returns, so
// work on different sessions runs concurrently. Nested calls join the outer
// unit of work.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if uow, _ := ctx.Value(txKey{}).(*unitOfWork); uow != nil && uow.store == t.store {
		return fn(ctx)
	}
	uow := &unitOfWork{store: t.store, held: make(map[string]struct{})}
	defer uow.unlockAll()
	return fn(context.WithValue(ctx, txKey{}, uow))
}

// lockSession takes the session lock for id when ctx carries a unit of work
// on store. Outside RunInTx it is a no-op.
func lockSession(ctx context.Context, store *Store, id string) error {
	uow, _ := ctx.Value(txKey{}).(*unitOfWork)
	if uow == nil || uow.store != store {
		return nil
	}
	uow.mu.Lock()
	defer uow.mu.Unlock()
	if _, ok := uow.held[id]; ok {
		return nil
	}
	release, err := store.locks.acquire(ctx, id)
	if err != nil {
		return err
	}
	uow.held[id] = struct{}{}
	uow.release = append(uow.release, release)
	return nil
}

func (u *unitOfWork) unlockAll() {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i := len(u.release) - 1; i >= 0; i-- {
		u.release[i]()
	}
	u.release = nil
}

// keyedLocks hands out one lock per session id. Entries are dropped once no
// holder or waiter references them.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sem  chan struct{}
	refs int
}

func (k *keyedLocks) acquire(ctx context.Context, id string) (func(), error) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[id]
	if !ok {
		l = &keyedLock{sem: make(chan struct{}, 1)}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
		return func() {
			<-l.sem
			k.unref(id, l)
		}, nil
	case <-ctx.Done():
		k.unref(id, l)
		return nil, ctx.Err()
	}
}

func (k *keyedLocks) unref(id string, l *keyedLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, id)
	}
}

func (k *keyedLocks) len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
