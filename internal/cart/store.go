package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// Mode selects which of the two collections the sidebar and checkout act on.
type Mode string

const (
	ModeCart Mode = "cart"
	ModeRFQ  Mode = "rfq"
)

// Valid reports whether m names a known cart mode.
func (m Mode) Valid() bool {
	return m == ModeCart || m == ModeRFQ
}

// Storage is the durable mirror behind the session carts. Load returns
// nil, nil when no payload exists for the key.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// UIState is the per-session sidebar state: which collection is active and
// whether the sidebar is open. Adding an item opens the sidebar but never
// switches the active mode; callers switch modes explicitly.
type UIState struct {
	ActiveMode Mode `json:"active_mode"`
	IsOpen     bool `json:"is_open"`
}

// Store owns the two per-session cart collections. Every mutation is
// mirrored to storage before the call returns, so a reload never loses
// cart contents. A corrupt mirror degrades to an empty collection.
type Store struct {
	storage Storage
}

// NewStore constructs a Store over the given durable mirror.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Items loads the collection for the given session and mode. Unparseable
// payloads are logged and treated as empty rather than failing the request.
func (s *Store) Items(ctx context.Context, sessionID string, mode Mode) ([]LineItem, error) {
	data, err := s.storage.Load(ctx, itemsKey(sessionID, mode))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []LineItem{}, nil
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("[Cart] Corrupt %s cart for session %s, resetting: %v", mode, sessionID, err)
		return []LineItem{}, nil
	}

	return items, nil
}

// Add merges the item into the session's collection and opens the sidebar.
func (s *Store) Add(ctx context.Context, sessionID string, mode Mode, item LineItem) ([]LineItem, error) {
	items, err := s.Items(ctx, sessionID, mode)
	if err != nil {
		return nil, err
	}

	items = AddOrMerge(items, item)
	if err := s.save(ctx, sessionID, mode, items); err != nil {
		return nil, err
	}

	if err := s.setOpen(ctx, sessionID, true); err != nil {
		log.Printf("[Cart] Failed to persist sidebar state for session %s: %v", sessionID, err)
	}

	return items, nil
}

// UpdateQuantity sets a line's quantity (zero or less removes the line).
func (s *Store) UpdateQuantity(ctx context.Context, sessionID string, mode Mode, id string, quantity int) ([]LineItem, error) {
	items, err := s.Items(ctx, sessionID, mode)
	if err != nil {
		return nil, err
	}

	items = UpdateQuantity(items, id, quantity)
	if err := s.save(ctx, sessionID, mode, items); err != nil {
		return nil, err
	}

	return items, nil
}

// Remove drops a line by ID. Absent IDs are a no-op.
func (s *Store) Remove(ctx context.Context, sessionID string, mode Mode, id string) ([]LineItem, error) {
	items, err := s.Items(ctx, sessionID, mode)
	if err != nil {
		return nil, err
	}

	items = Remove(items, id)
	if err := s.save(ctx, sessionID, mode, items); err != nil {
		return nil, err
	}

	return items, nil
}

// Clear empties the collection. Used after a successful order or quote
// submission.
func (s *Store) Clear(ctx context.Context, sessionID string, mode Mode) error {
	return s.storage.Delete(ctx, itemsKey(sessionID, mode))
}

// UI returns the session's sidebar state, defaulting to a closed sidebar
// on the purchase cart.
func (s *Store) UI(ctx context.Context, sessionID string) (UIState, error) {
	state := UIState{ActiveMode: ModeCart}

	data, err := s.storage.Load(ctx, uiKey(sessionID))
	if err != nil {
		return state, err
	}
	if len(data) == 0 {
		return state, nil
	}

	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("[Cart] Corrupt UI state for session %s, resetting: %v", sessionID, err)
		return UIState{ActiveMode: ModeCart}, nil
	}
	if !state.ActiveMode.Valid() {
		state.ActiveMode = ModeCart
	}

	return state, nil
}

// SetMode switches the active collection without touching either cart.
func (s *Store) SetMode(ctx context.Context, sessionID string, mode Mode) error {
	state, err := s.UI(ctx, sessionID)
	if err != nil {
		return err
	}

	state.ActiveMode = mode
	return s.saveUI(ctx, sessionID, state)
}

// SetOpen opens or closes the sidebar.
func (s *Store) SetOpen(ctx context.Context, sessionID string, open bool) error {
	return s.setOpen(ctx, sessionID, open)
}

func (s *Store) setOpen(ctx context.Context, sessionID string, open bool) error {
	state, err := s.UI(ctx, sessionID)
	if err != nil {
		return err
	}

	state.IsOpen = open
	return s.saveUI(ctx, sessionID, state)
}

func (s *Store) save(ctx context.Context, sessionID string, mode Mode, items []LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, itemsKey(sessionID, mode), data)
}

func (s *Store) saveUI(ctx context.Context, sessionID string, state UIState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, uiKey(sessionID), data)
}

func itemsKey(sessionID string, mode Mode) string {
	return fmt.Sprintf("%s:%s", mode, sessionID)
}

func uiKey(sessionID string) string {
	return fmt.Sprintf("cartui:%s", sessionID)
}
