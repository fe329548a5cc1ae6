package credential

import (
	"context"
	"log"
	"sync"

	"herbal-infusion-ai/internal/keystore"
)

// Snapshot is a point-in-time view of the credential state.
type Snapshot struct {
	Key       string
	Status    Status
	LastError string
}

// Manager holds the single source of truth for the API key. All mutations go
// through Resolve, Set, Clear, and ReportRemoteRejection; callers read state
// through snapshots and must only attempt generation when the status is
// StatusValid.
type Manager struct {
	mu     sync.Mutex
	store  keystore.Store
	envKey string

	key       string
	status    Status
	lastError string
}

// NewManager creates a manager in the idle state. envKey is the
// environment-provided fallback key and may be empty.
func NewManager(store keystore.Store, envKey string) *Manager {
	return &Manager{
		store:  store,
		envKey: envKey,
		status: StatusIdle,
	}
}

// Resolve derives the credential state from the durable store and the
// environment. It is meant to be called exactly once at startup, before the
// first submission is permitted.
//
// The store takes precedence. A malformed stored key is erased. The
// environment key is only consulted when the store yielded nothing usable,
// and is then promoted into the store; a different valid stored key is never
// overwritten by the environment value.
func (m *Manager) Resolve(ctx context.Context) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status = StatusChecking
	m.lastError = ""
	m.key = ""

	storedUsable := false
	stored, ok, err := m.store.Get(ctx, StorageKey)
	if err != nil {
		// A failed read is treated as an empty store so resolution still
		// terminates in a definite status.
		log.Printf("Failed to read stored API key: %v", err)
		ok = false
	}
	if ok {
		if IsWellFormed(stored) {
			m.key = stored
			m.status = StatusValid
			storedUsable = true
		} else {
			if err := m.store.Remove(ctx, StorageKey); err != nil {
				log.Printf("Failed to clear malformed stored API key: %v", err)
			}
			m.status = StatusInvalidFormat
			m.lastError = "Stored API key had an invalid format and was cleared. Please re-enter."
		}
	}

	if m.key == "" && m.envKey != "" {
		if IsWellFormed(m.envKey) {
			m.key = m.envKey
			m.status = StatusValid
			if !storedUsable {
				// Best-effort promotion of the environment key into durable
				// storage.
				if err := m.store.Set(ctx, StorageKey, m.envKey); err != nil {
					log.Printf("Failed to persist environment API key: %v", err)
				}
			}
		} else if m.status != StatusInvalidFormat {
			m.status = StatusInvalidFormat
			m.lastError = "API key from environment variable has an invalid format. Please provide a valid key."
		}
	}

	if m.key == "" && m.status == StatusChecking {
		m.status = StatusMissing
		m.lastError = "API key is not configured. Please enter your Gemini API key to begin."
	}

	return m.snapshotLocked()
}

// Set adopts a candidate key. A well-formed candidate is persisted and marks
// the state valid; a malformed one drops any adopted key, empties the store,
// and reports the required shape. The operation is idempotent.
func (m *Manager) Set(ctx context.Context, candidate string) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if IsWellFormed(candidate) {
		m.key = candidate
		m.status = StatusValid
		m.lastError = ""
		if err := m.store.Set(ctx, StorageKey, candidate); err != nil {
			log.Printf("Failed to persist API key: %v", err)
		}
	} else {
		m.key = ""
		m.status = StatusInvalidFormat
		m.lastError = `Invalid API key format. Key must start with "AIza" and be longer than 30 characters.`
		if err := m.store.Remove(ctx, StorageKey); err != nil {
			log.Printf("Failed to remove persisted API key: %v", err)
		}
	}

	return m.snapshotLocked()
}

// Clear unconditionally drops the adopted key and empties the store. Callers
// should discard any previously displayed generation result.
func (m *Manager) Clear(ctx context.Context) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.key = ""
	m.status = StatusMissing
	m.lastError = "API key cleared. Please enter a new API key to continue."
	if err := m.store.Remove(ctx, StorageKey); err != nil {
		log.Printf("Failed to remove persisted API key: %v", err)
	}

	return m.snapshotLocked()
}

// ReportRemoteRejection records that the remote service rejected the adopted
// key at call time. The key itself is kept so the user can see what was
// tried; generation stays blocked until it is replaced or cleared.
func (m *Manager) ReportRemoteRejection() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.key != "" {
		m.status = StatusErrorAPI
	} else {
		m.status = StatusMissing
	}

	return m.snapshotLocked()
}

// Snapshot returns the current credential state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Key returns the currently adopted key, or an empty string.
func (m *Manager) Key() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.key
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Key:       m.key,
		Status:    m.status,
		LastError: m.lastError,
	}
}
