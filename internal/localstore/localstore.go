// Package localstore persists the guest cart and wishlist.
//
// Items are stored as JSON blobs in a small key/value table so the stored
// shape stays compatible with what the gateway returns. The store is
// fail-soft: when the database could not be opened, reads return empty
// collections and writes are dropped, so a broken state directory never
// takes the storefront down.
package localstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront-client/internal/bus"
	"storefront-client/internal/model"
)

const (
	cartKey     = "localCart"
	wishlistKey = "localWishlist"
)

// record is one row in the kv table.
type record struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// ToggleStatus reports the outcome of a wishlist toggle.
type ToggleStatus string

const (
	ToggleAdded   ToggleStatus = "added"
	ToggleRemoved ToggleStatus = "removed"
)

// Store is the local item store.
type Store struct {
	db     *gorm.DB
	events *bus.Bus
	logger *slog.Logger
}

// Open creates or opens the store database under stateDir.
// A nil-db Store is returned on failure so callers can keep running.
func Open(stateDir string, events *bus.Bus, log *slog.Logger) *Store {
	s := &Store{events: events, logger: log}

	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		log.Warn("local store unavailable", "error", err)
		return s
	}
	db, err := gorm.Open(sqlite.Open(filepath.Join(stateDir, "store.db")), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		log.Warn("local store unavailable", "error", err)
		return s
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		log.Warn("local store migration failed", "error", err)
		return s
	}
	s.db = db
	return s
}

// OpenInMemory opens an in-memory store. Used by tests.
func OpenInMemory(events *bus.Bus, log *slog.Logger) *Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		log.Warn("local store unavailable", "error", err)
		return &Store{events: events, logger: log}
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		log.Warn("local store migration failed", "error", err)
		return &Store{events: events, logger: log}
	}
	return &Store{db: db, events: events, logger: log}
}

// readLines decodes the stored collection under key.
// Corrupt or missing data yields an empty slice.
func (s *Store) readLines(key string) []model.CartLine {
	if s.db == nil {
		return nil
	}
	var rec record
	err := s.db.First(&rec, "key = ?", key).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			s.logger.Warn("local store read failed", "key", key, "error", err)
		}
		return nil
	}
	var lines []model.CartLine
	if err := json.Unmarshal([]byte(rec.Value), &lines); err != nil {
		s.logger.Warn("local store value corrupt, resetting", "key", key, "error", err)
		return nil
	}
	return lines
}

// writeLines stores the collection under key and publishes topic.
func (s *Store) writeLines(key string, lines []model.CartLine, topic bus.Topic) error {
	if s.db == nil {
		return nil
	}
	if lines == nil {
		lines = []model.CartLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	err = s.db.Save(&record{Key: key, Value: string(data)}).Error
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if s.events != nil {
		s.events.Publish(topic)
	}
	return nil
}

// CartItems returns the guest cart contents.
func (s *Store) CartItems() []model.CartLine {
	return s.readLines(cartKey)
}

// WishlistItems returns the guest wishlist contents.
func (s *Store) WishlistItems() []model.CartLine {
	return s.readLines(wishlistKey)
}

// SetCartItems replaces the whole guest cart.
func (s *Store) SetCartItems(lines []model.CartLine) error {
	return s.writeLines(cartKey, lines, bus.CartChanged)
}

// SetWishlistItems replaces the whole guest wishlist.
func (s *Store) SetWishlistItems(lines []model.CartLine) error {
	return s.writeLines(wishlistKey, lines, bus.WishlistChanged)
}

// UpsertCartItem adds line to the guest cart. When an existing entry matches
// by product id (and pack id, unless the incoming line leaves the pack
// unspecified) the quantities are accumulated; otherwise the line is
// appended. Quantities are normalized to at least 1.
func (s *Store) UpsertCartItem(line model.CartLine) error {
	items := s.CartItems()
	qty := line.LineQuantity()
	targetPack := line.TargetPackID()

	for i := range items {
		if items[i].ProductID() != line.ProductID() {
			continue
		}
		// An unspecified target pack matches any stored pack.
		if !targetPack.IsZero() && items[i].TargetPackID() != targetPack {
			continue
		}
		items[i].Quantity = model.Num(float64(items[i].LineQuantity() + qty))
		items[i].Qty = model.Scalar{}
		items[i].Amount = model.Scalar{}
		return s.SetCartItems(items)
	}

	line.Quantity = model.Num(float64(qty))
	return s.SetCartItems(append(items, line))
}

// UpdateCartItemQuantity sets the quantity of a matching entry, replacing
// rather than accumulating. Entries that do not match are left alone.
func (s *Store) UpdateCartItemQuantity(productID, packSizeID model.Ident, quantity int) error {
	items := s.CartItems()
	if quantity < 1 {
		quantity = 1
	}
	for i := range items {
		if items[i].ProductID() != productID {
			continue
		}
		if !packSizeID.IsZero() && items[i].TargetPackID() != packSizeID {
			continue
		}
		items[i].Quantity = model.Num(float64(quantity))
		items[i].Qty = model.Scalar{}
		items[i].Amount = model.Scalar{}
	}
	return s.SetCartItems(items)
}

// RemoveCartItem drops matching entries from the guest cart.
func (s *Store) RemoveCartItem(productID, packSizeID model.Ident) error {
	items := s.CartItems()
	kept := items[:0]
	for _, it := range items {
		if it.ProductID() == productID &&
			(packSizeID.IsZero() || it.TargetPackID() == packSizeID) {
			continue
		}
		kept = append(kept, it)
	}
	return s.SetCartItems(kept)
}

// ToggleWishlistItem adds the line when its product is absent from the
// guest wishlist and removes it when present.
func (s *Store) ToggleWishlistItem(line model.CartLine) (ToggleStatus, error) {
	items := s.WishlistItems()
	id := line.ProductID()

	kept := items[:0]
	removed := false
	for _, it := range items {
		if it.ProductID() == id {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if removed {
		return ToggleRemoved, s.SetWishlistItems(kept)
	}
	return ToggleAdded, s.SetWishlistItems(append(items, line))
}

// RemoveFromWishlist drops a product from the guest wishlist if present.
// A miss is not an error.
func (s *Store) RemoveFromWishlist(productID model.Ident) error {
	items := s.WishlistItems()
	kept := items[:0]
	removed := false
	for _, it := range items {
		if it.ProductID() == productID {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if !removed {
		return nil
	}
	return s.SetWishlistItems(kept)
}

// ClearCart empties the guest cart.
func (s *Store) ClearCart() error {
	return s.SetCartItems(nil)
}

// ClearWishlist empties the guest wishlist.
func (s *Store) ClearWishlist() error {
	return s.SetWishlistItems(nil)
}

// CartCount sums the quantities of all guest cart entries.
func (s *Store) CartCount() int {
	total := 0
	for _, it := range s.CartItems() {
		total += it.LineQuantity()
	}
	return total
}

// WishlistCount reports the number of guest wishlist entries.
func (s *Store) WishlistCount() int {
	return len(s.WishlistItems())
}
