package store

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/resale-dev/resale/internal/model"
)

// Snapshot is the JSON backup format. A nil collection on import leaves the
// stored one untouched.
type Snapshot struct {
	Purchases  []model.Purchase `json:"purchases"`
	Items      []model.Item     `json:"items"`
	ExportDate time.Time        `json:"exportDate"`
}

// Export returns every purchase and item.
func (s *Service) Export() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purchases, err := s.readPurchases()
	if err != nil {
		return Snapshot{}, err
	}
	items, err := s.readItems()
	if err != nil {
		return Snapshot{}, err
	}
	if purchases == nil {
		purchases = []model.Purchase{}
	}
	if items == nil {
		items = []model.Item{}
	}
	return Snapshot{Purchases: purchases, Items: items, ExportDate: s.now().UTC()}, nil
}

// Import replaces the stored collections present in snap.
func (s *Service) Import(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []model.Item
	if snap.Items != nil {
		items = make([]model.Item, len(snap.Items))
	}
	for i, it := range snap.Items {
		if it.ID == "" {
			return fmt.Errorf("item %d: missing item_id", i+1)
		}
		if it.Status == "" {
			it.Status = model.StatusUnlisted
		}
		if !it.Status.Valid() {
			return fmt.Errorf("item %d: invalid status %q", i+1, it.Status)
		}
		items[i] = it
	}
	for i, p := range snap.Purchases {
		if p.ID == "" {
			return fmt.Errorf("purchase %d: missing purchase_id", i+1)
		}
	}

	if snap.Purchases != nil {
		if err := s.writePurchases(snap.Purchases); err != nil {
			return err
		}
	}
	if items != nil {
		if err := s.writeItems(items); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON encodes snap as indented JSON.
func WriteJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// ReadJSON decodes a snapshot written by WriteJSON.
func ReadJSON(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("invalid JSON file: %w", err)
	}
	return snap, nil
}
