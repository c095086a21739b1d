package memory

import (
	"context"

	"terragrow/internal/app/ports"
	"terragrow/internal/domain/season"
)

type SessionRepo struct {
	store *Store
}

func NewSessionRepo(store *Store) SessionRepo {
	return SessionRepo{store: store}
}

func (r SessionRepo) Create(ctx context.Context, s *season.Session) error {
	if err := lockSession(ctx, r.store, s.ID); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	at := r.store.now()
	if cur, ok := r.store.sessions[s.ID]; ok && !r.store.expired(cur, at) {
		return ports.ErrConflict
	}
	r.store.sessions[s.ID] = entry{session: s.Clone(), touched: at}
	return nil
}

func (r SessionRepo) Get(ctx context.Context, id string) (*season.Session, error) {
	if err := lockSession(ctx, r.store, id); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	at := r.store.now()
	cur, ok := r.store.sessions[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if r.store.expired(cur, at) {
		delete(r.store.sessions, id)
		return nil, ports.ErrNotFound
	}
	cur.touched = at
	r.store.sessions[id] = cur
	return cur.session.Clone(), nil
}

func (r SessionRepo) Put(ctx context.Context, s *season.Session, expectedVersion int64) error {
	if err := lockSession(ctx, r.store, s.ID); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	at := r.store.now()
	cur, ok := r.store.sessions[s.ID]
	if !ok || r.store.expired(cur, at) {
		return ports.ErrNotFound
	}
	if cur.session.Version != expectedVersion {
		return ports.ErrConflict
	}
	next := s.Clone()
	next.Version = expectedVersion + 1
	s.Version = next.Version
	r.store.sessions[s.ID] = entry{session: next, touched: at}
	return nil
}

func (r SessionRepo) Delete(ctx context.Context, id string) error {
	if err := lockSession(ctx, r.store, id); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.sessions[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.store.sessions, id)
	return nil
}
