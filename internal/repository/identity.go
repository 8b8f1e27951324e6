package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
)

// IdentityRepository persists the clientKey -> playerID mapping so a client
// can relearn which seat is theirs after a reconnect.
type IdentityRepository struct {
	db *DB
}

// NewIdentityRepository creates a database-backed identity store.
func NewIdentityRepository(db *DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Get returns the player id mapped to the client key, or "" when unmapped.
func (r *IdentityRepository) Get(ctx context.Context, clientKey string) (string, error) {
	var playerID string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT player_id FROM player_identities WHERE client_key = $1`,
		clientKey,
	).Scan(&playerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load identity: %w", err)
	}
	return playerID, nil
}

// Set upserts the mapping for the client key.
func (r *IdentityRepository) Set(ctx context.Context, clientKey, playerID string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO player_identities (client_key, player_id, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (client_key)
		 DO UPDATE SET player_id = EXCLUDED.player_id, updated_at = now()`,
		clientKey, playerID,
	)
	if err != nil {
		return fmt.Errorf("failed to store identity: %w", err)
	}
	return nil
}

// Remove drops the mapping for the client key.
func (r *IdentityRepository) Remove(ctx context.Context, clientKey string) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM player_identities WHERE client_key = $1`,
		clientKey,
	)
	if err != nil {
		return fmt.Errorf("failed to remove identity: %w", err)
	}
	return nil
}

// MemoryIdentityStore is the in-process fallback used when no database is
// configured, and by tests.
type MemoryIdentityStore struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemoryIdentityStore creates an empty in-memory identity store.
func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{m: make(map[string]string)}
}

// Get returns the player id mapped to the client key, or "".
func (s *MemoryIdentityStore) Get(_ context.Context, clientKey string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m[clientKey], nil
}

// Set stores the mapping for the client key.
func (s *MemoryIdentityStore) Set(_ context.Context, clientKey, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[clientKey] = playerID
	return nil
}

// Remove drops the mapping for the client key.
func (s *MemoryIdentityStore) Remove(_ context.Context, clientKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, clientKey)
	return nil
}
