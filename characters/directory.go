// Package characters tracks which character names each user has referenced.
// Everything here is process memory only; persistence is a later concern.
package characters

import (
	"strings"
	"sync"
	"time"
)

// MaxSuggestions is the Discord cap on autocomplete choices.
const MaxSuggestions = 25

// Roll records one affliction rolled for a character.
type Roll struct {
	Affliction string
	RolledAt   time.Time
}

type Directory struct {
	mu sync.Mutex
	// names maps a user ID to that user's character names in insertion
	// order; history maps user ID and character name to recorded rolls.
	names   map[string][]string
	history map[string]map[string][]Roll
}

func NewDirectory() *Directory {
	return &Directory{
		names:   make(map[string][]string),
		history: make(map[string]map[string][]Roll),
	}
}

// ListFor returns the character names known for a user in insertion order.
func (d *Directory) ListFor(userID string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]string, len(d.names[userID]))
	copy(out, d.names[userID])
	return out
}

// Add registers a character name for a user. Duplicate names (case
// sensitive) are ignored.
func (d *Directory) Add(userID, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.names[userID] {
		if existing == name {
			return
		}
	}
	d.names[userID] = append(d.names[userID], name)
}

// Knows reports whether the user has already referenced the given name.
func (d *Directory) Knows(userID, name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.names[userID] {
		if existing == name {
			return true
		}
	}
	return false
}

// RecordRoll appends an affliction to the character's roll history.
func (d *Directory) RecordRoll(userID, character, affliction string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.history[userID] == nil {
		d.history[userID] = make(map[string][]Roll)
	}
	d.history[userID][character] = append(d.history[userID][character], Roll{
		Affliction: affliction,
		RolledAt:   time.Now(),
	})
}

// History returns the rolls recorded for a character, oldest first.
func (d *Directory) History(userID, character string) []Roll {
	d.mu.Lock()
	defer d.mu.Unlock()

	rolls := d.history[userID][character]
	out := make([]Roll, len(rolls))
	copy(out, rolls)
	return out
}

// Filter keeps the names whose lowercase form contains the lowercase input,
// preserving order and capping the result at limit.
func Filter(names []string, current string, limit int) []string {
	needle := strings.ToLower(current)

	var filtered []string
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), needle) {
			filtered = append(filtered, name)
			if len(filtered) == limit {
				break
			}
		}
	}
	return filtered
}
