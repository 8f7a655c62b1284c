// Package ids provides identifier generation: per-kind integer sequences,
// random UUIDs, and a reversible mapping from integer ids to UUID-shaped
// surrogate keys.
package ids

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Kind tags the entity an integer id belongs to.
type Kind uint32

// KindBook tags book ids.
const KindBook Kind = 2

// MaxID is the largest integer id a surrogate key can carry (48 bits).
const MaxID = int64(1)<<48 - 1

// Sequence hands out monotonically increasing ids.
type Sequence struct {
	mu   sync.Mutex
	last int64
}

// Next returns the next id, starting at 1.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return s.last
}

// NewUUID returns a random identifier for carts, items, orders and reviews.
func NewUUID() uuid.UUID {
	return uuid.New()
}

// SurrogateKey maps (kind, id) onto a UUID-shaped key. The kind occupies the
// first group, the id the last 48 bits; version and variant bits are fixed so
// the key parses as a regular UUID.
func SurrogateKey(kind Kind, id int64) (string, error) {
	if id < 1 || id > MaxID {
		return "", fmt.Errorf("id %d out of surrogate range", id)
	}
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], uint32(kind))
	u[6] = 0x40
	u[8] = 0x80
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))
	copy(u[10:16], buf[2:8])
	return u.String(), nil
}

// ParseSurrogateKey is the inverse of SurrogateKey.
func ParseSurrogateKey(kind Kind, key string) (int64, error) {
	u, err := uuid.Parse(key)
	if err != nil {
		return 0, fmt.Errorf("invalid surrogate key %q: %w", key, err)
	}
	if Kind(binary.BigEndian.Uint32(u[0:4])) != kind {
		return 0, fmt.Errorf("surrogate key %q is not of kind %d", key, kind)
	}
	if u[4] != 0 || u[5] != 0 || u[6] != 0x40 || u[7] != 0 || u[8] != 0x80 || u[9] != 0 {
		return 0, fmt.Errorf("surrogate key %q is malformed", key)
	}
	var buf [8]byte
	copy(buf[2:8], u[10:16])
	id := int64(binary.BigEndian.Uint64(buf[:]))
	if id < 1 {
		return 0, fmt.Errorf("surrogate key %q carries no id", key)
	}
	return id, nil
}

// InventoryID is the purchasable-unit key the cart uses for a book.
func InventoryID(bookID int64) (string, error) {
	return SurrogateKey(KindBook, bookID)
}

// BookIDFromInventory reverses InventoryID.
func BookIDFromInventory(inventoryID string) (int64, error) {
	return ParseSurrogateKey(KindBook, inventoryID)
}
