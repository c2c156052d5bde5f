package domain

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrUnknownSize       = errors.New("size not stocked for product")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)

type SizeEntry struct {
	Size     string
	Quantity int
}

// SizeStock is the per-size stock of a product, stored as "L=5,M=3".
// Entry order is preserved across a parse/format round trip.
type SizeStock []SizeEntry

// ParseSizes decodes the stored form. Malformed entries are dropped.
func ParseSizes(s string) SizeStock {
	var out SizeStock
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		kv := strings.Split(strings.TrimSpace(part), "=")
		if len(kv) != 2 {
			continue
		}
		size := strings.TrimSpace(kv[0])
		qty, err := strconv.Atoi(strings.TrimSpace(kv[1]))
		if size == "" || err != nil || qty < 0 {
			continue
		}
		key := strings.ToUpper(size)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, SizeEntry{Size: size, Quantity: qty})
	}
	return out
}

func (s SizeStock) String() string {
	parts := make([]string, 0, len(s))
	for _, e := range s {
		parts = append(parts, e.Size+"="+strconv.Itoa(e.Quantity))
	}
	return strings.Join(parts, ",")
}

func (s SizeStock) index(size string) int {
	for i, e := range s {
		if strings.EqualFold(e.Size, size) {
			return i
		}
	}
	return -1
}

// Available reports the stock of one size bucket.
func (s SizeStock) Available(size string) (int, bool) {
	i := s.index(size)
	if i < 0 {
		return 0, false
	}
	return s[i].Quantity, true
}

// Decrement returns a copy with n units taken from size.
func (s SizeStock) Decrement(size string, n int) (SizeStock, error) {
	if n <= 0 {
		return nil, ErrInvalidQuantity
	}
	i := s.index(size)
	if i < 0 {
		return nil, ErrUnknownSize
	}
	if s[i].Quantity < n {
		return nil, ErrInsufficientStock
	}
	out := make(SizeStock, len(s))
	copy(out, s)
	out[i].Quantity -= n
	return out, nil
}

// Increment returns a copy with n units put back into size.
func (s SizeStock) Increment(size string, n int) (SizeStock, error) {
	if n <= 0 {
		return nil, ErrInvalidQuantity
	}
	i := s.index(size)
	if i < 0 {
		return nil, ErrUnknownSize
	}
	out := make(SizeStock, len(s))
	copy(out, s)
	out[i].Quantity += n
	return out, nil
}
