package model

import (
	"encoding/json"
	"sort"
)

// Entry is one key of a FrequencyTable with its count
type Entry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// FrequencyTable maps tokens or categories to counts.
// It remembers first-encountered order and is read-only once built.
type FrequencyTable struct {
	order  []string
	counts map[string]int
}

// FrequencyCounter accumulates counts and produces FrequencyTables
type FrequencyCounter struct {
	order  []string
	counts map[string]int
}

func NewFrequencyCounter() *FrequencyCounter {
	return &FrequencyCounter{counts: make(map[string]int)}
}

// Add increments key by n, registering it on first sight
func (c *FrequencyCounter) Add(key string, n int) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

// Table snapshots the counter; later Adds do not affect the returned table
func (c *FrequencyCounter) Table() *FrequencyTable {
	t := &FrequencyTable{
		order:  make([]string, len(c.order)),
		counts: make(map[string]int, len(c.counts)),
	}
	copy(t.order, c.order)
	for k, v := range c.counts {
		t.counts[k] = v
	}
	return t
}

// Count returns the count for key, zero when absent
func (t *FrequencyTable) Count(key string) int {
	if t == nil {
		return 0
	}
	return t.counts[key]
}

func (t *FrequencyTable) Has(key string) bool {
	if t == nil {
		return false
	}
	_, ok := t.counts[key]
	return ok
}

func (t *FrequencyTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Total is the sum of all counts
func (t *FrequencyTable) Total() int {
	if t == nil {
		return 0
	}
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Entries lists keys in first-encountered order
func (t *FrequencyTable) Entries() []Entry {
	if t == nil {
		return []Entry{}
	}
	out := make([]Entry, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, Entry{Key: k, Count: t.counts[k]})
	}
	return out
}

// Ranked lists keys by descending count; equal counts keep first-encountered order
func (t *FrequencyTable) Ranked() []Entry {
	out := t.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// MostCommon returns the top-ranked entry
func (t *FrequencyTable) MostCommon() (Entry, bool) {
	ranked := t.Ranked()
	if len(ranked) == 0 {
		return Entry{}, false
	}
	return ranked[0], true
}

func (t *FrequencyTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Entries())
}

func (t *FrequencyTable) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	c := NewFrequencyCounter()
	for _, e := range entries {
		c.Add(e.Key, e.Count)
	}
	*t = *c.Table()
	return nil
}
