// Package localbank serves quiz questions from a bundled, read-only
// question pool keyed by category slug. It is the offline counterpart
// of the opentdb client and the fallback target when the remote
// service is rate limited.
package localbank

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
)

//go:embed questions.json
var embeddedBank []byte

// Row mirrors the loose row shape used by the remote adapter so both
// sources feed the same normalizer.
type Row = map[string]any

type Bank struct {
	pools map[string][]Row
}

var (
	defaultBank     *Bank
	defaultBankErr  error
	defaultBankOnce sync.Once
)

// Default returns the bank parsed from the embedded question file.
// Parsing happens once per process.
func Default() (*Bank, error) {
	defaultBankOnce.Do(func() {
		defaultBank, defaultBankErr = parse(embeddedBank)
	})
	return defaultBank, defaultBankErr
}

// FromFile loads a bank from an external JSON file with the same
// slug -> rows layout as the embedded one.
func FromFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func parse(data []byte) (*Bank, error) {
	pools := make(map[string][]Row)
	if err := json.Unmarshal(data, &pools); err != nil {
		return nil, fmt.Errorf("localbank: parse question bank: %w", err)
	}

	normalized := make(map[string][]Row, len(pools))
	for slug, rows := range pools {
		normalized[strings.ToLower(strings.TrimSpace(slug))] = rows
	}
	return &Bank{pools: normalized}, nil
}

// Slugs lists the category slugs present in the bank.
func (b *Bank) Slugs() []string {
	slugs := make([]string, 0, len(b.pools))
	for slug := range b.pools {
		slugs = append(slugs, slug)
	}
	return slugs
}

// Fetch samples up to amount rows for the given category slug and
// difficulty. An absent or unrecognized slug widens the pool to every
// category rather than failing; difficulty "mixed" (or empty) skips
// the difficulty filter. Sampling is uniform and without replacement;
// a short pool returns everything it has.
func (b *Bank) Fetch(amount int, difficulty, slug string) []Row {
	pool := b.pool(slug)

	difficulty = strings.ToLower(strings.TrimSpace(difficulty))
	if difficulty != "" && difficulty != "mixed" {
		filtered := make([]Row, 0, len(pool))
		for _, row := range pool {
			if rowDifficulty(row) == difficulty {
				filtered = append(filtered, row)
			}
		}
		pool = filtered
	}

	// Shuffle a copy so the bank itself stays in load order.
	sampled := make([]Row, len(pool))
	copy(sampled, pool)
	rand.Shuffle(len(sampled), func(i, j int) {
		sampled[i], sampled[j] = sampled[j], sampled[i]
	})

	if amount > 0 && amount < len(sampled) {
		sampled = sampled[:amount]
	}
	return sampled
}

func (b *Bank) pool(slug string) []Row {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug != "" {
		if pool, ok := b.pools[slug]; ok {
			return pool
		}
	}

	all := make([]Row, 0)
	for _, pool := range b.pools {
		all = append(all, pool...)
	}
	return all
}

func rowDifficulty(row Row) string {
	value, _ := row["difficulty"].(string)
	return strings.ToLower(strings.TrimSpace(value))
}
