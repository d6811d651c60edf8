package model

import "time"

// BannedTerm is a single persisted ban-list entry.
type BannedTerm struct {
	ID      int64
	Term    string
	AddedAt time.Time
}

// BanList is an insertion-ordered set of excluded terms. Membership is
// case-sensitive and exact. The zero value is an empty, usable list.
// Copies share storage; use Clone before mutating a copy.
type BanList struct {
	terms []string
	index map[string]struct{}
}

// NewBanList builds a BanList from terms, dropping duplicates.
func NewBanList(terms ...string) BanList {
	var b BanList
	for _, t := range terms {
		b.Add(t)
	}
	return b
}

// Add inserts term if absent. It reports whether the list changed.
func (b *BanList) Add(term string) bool {
	if b.Contains(term) {
		return false
	}
	if b.index == nil {
		b.index = make(map[string]struct{})
	}
	b.index[term] = struct{}{}
	b.terms = append(b.terms, term)
	return true
}

// Remove deletes term if present. It reports whether the list changed.
func (b *BanList) Remove(term string) bool {
	if !b.Contains(term) {
		return false
	}
	delete(b.index, term)
	for i, t := range b.terms {
		if t == term {
			b.terms = append(b.terms[:i:i], b.terms[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether term is banned.
func (b BanList) Contains(term string) bool {
	_, ok := b.index[term]
	return ok
}

// Rejects reports whether a dog of the given breed is excluded, either by its
// breed or by one of the fixed attributes every dog carries.
func (b BanList) Rejects(breed string) bool {
	if b.Contains(breed) {
		return true
	}
	for _, attr := range FixedAttributes() {
		if b.Contains(attr) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the list.
func (b BanList) Clone() BanList {
	return NewBanList(b.terms...)
}

// Terms returns a copy of the banned terms in insertion order.
func (b BanList) Terms() []string {
	out := make([]string, len(b.terms))
	copy(out, b.terms)
	return out
}

// Len returns the number of banned terms.
func (b BanList) Len() int {
	return len(b.terms)
}
