package catalog

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

// Catalog holds the full set of afflictions loaded from a flat JSON file.
// The set is read once at startup and rewritten on shutdown; no records are
// created or removed at runtime.
type Catalog struct {
	mu          sync.Mutex
	path        string
	afflictions []Affliction
}

func New(path string) *Catalog {
	return &Catalog{path: path}
}

// Load reads the affliction file. A missing file leaves the catalog empty
// and only logs a warning; malformed JSON is returned as an error.
func (c *Catalog) Load() error {
	raw, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		logrus.Warnf("Affliction file not found at %s. No afflictions loaded.", c.path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.path, err)
	}

	afflictions, err := parseAfflictions(raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", c.path, err)
	}

	c.mu.Lock()
	c.afflictions = afflictions
	c.mu.Unlock()

	return nil
}

func parseAfflictions(raw []byte) ([]Affliction, error) {
	var p fastjson.Parser
	root, err := p.ParseBytes(raw)
	if err != nil {
		return nil, err
	}

	items, err := root.Array()
	if err != nil {
		return nil, err
	}

	afflictions := make([]Affliction, 0, len(items))
	for _, item := range items {
		aff := Affliction{Weight: 1, Danger: 1}
		aff.Name = string(item.GetStringBytes("name"))
		aff.Description = string(item.GetStringBytes("description"))
		if v := item.Get("weight"); v != nil {
			aff.Weight = v.GetInt()
		}
		if v := item.Get("danger"); v != nil {
			aff.Danger = v.GetInt()
		}
		if details := item.GetObject("details"); details != nil {
			aff.Details = make(map[string]string)
			details.Visit(func(key []byte, value *fastjson.Value) {
				aff.Details[string(key)] = string(value.GetStringBytes())
			})
		}
		afflictions = append(afflictions, aff)
	}

	return afflictions, nil
}

// Save writes the full catalog back to its file as an indented JSON array,
// creating the data directory if needed and overwriting unconditionally.
func (c *Catalog) Save() error {
	c.mu.Lock()
	raw, err := json.MarshalIndent(c.afflictions, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding afflictions: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(c.path, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", c.path, err)
	}

	return nil
}

// All returns the catalog ordered by danger, then weight, then name. The
// sort is stable, so repeated calls return the same order.
func (c *Catalog) All() []Affliction {
	c.mu.Lock()
	defer c.mu.Unlock()

	sort.SliceStable(c.afflictions, func(i, j int) bool {
		a, b := c.afflictions[i], c.afflictions[j]
		if a.Danger != b.Danger {
			return a.Danger < b.Danger
		}
		if a.Weight != b.Weight {
			return a.Weight < b.Weight
		}
		return a.Name < b.Name
	})

	out := make([]Affliction, len(c.afflictions))
	copy(out, c.afflictions)
	return out
}

func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.afflictions)
}

// Roll picks a random affliction, biased by weight. Weights below 1 count
// as 1. The second return is false when the catalog is empty.
func (c *Catalog) Roll(rng *rand.Rand) (Affliction, bool) {
	afflictions := c.All()
	if len(afflictions) == 0 {
		return Affliction{}, false
	}

	total := 0
	for _, aff := range afflictions {
		total += weightOf(aff)
	}

	pick := rng.Intn(total)
	for _, aff := range afflictions {
		pick -= weightOf(aff)
		if pick < 0 {
			return aff, true
		}
	}

	return afflictions[len(afflictions)-1], true
}

func weightOf(aff Affliction) int {
	if aff.Weight < 1 {
		return 1
	}
	return aff.Weight
}

// Page slices the sorted catalog into pages of perPage cards. The requested
// page is clamped to the valid range; the returned int is the page actually
// served, 1-based.
func (c *Catalog) Page(page, perPage int) ([]Affliction, int) {
	afflictions := c.All()
	if len(afflictions) == 0 || perPage < 1 {
		return nil, 1
	}

	lastPage := (len(afflictions) + perPage - 1) / perPage
	if page < 1 {
		page = 1
	} else if page > lastPage {
		page = lastPage
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(afflictions) {
		end = len(afflictions)
	}

	return afflictions[start:end], page
}
