package localbank

import (
	"testing"
)

func testBank(t *testing.T) *Bank {
	t.Helper()

	bank, err := Default()
	if err != nil {
		t.Fatalf("Default bank failed to load: %v", err)
	}
	return bank
}

func questionTexts(rows []Row) map[string]int {
	seen := make(map[string]int, len(rows))
	for _, row := range rows {
		text, _ := row["question"].(string)
		seen[text]++
	}
	return seen
}

func TestDefaultBankHasKnownCategories(t *testing.T) {
	bank := testBank(t)

	for _, slug := range []string{"gk", "js", "science", "sports", "geography", "history"} {
		rows := bank.Fetch(0, "mixed", slug)
		if len(rows) == 0 {
			t.Fatalf("no rows for category %q", slug)
		}
	}
}

func TestFetchCapsAtAmount(t *testing.T) {
	bank := testBank(t)

	rows := bank.Fetch(3, "mixed", "gk")
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}

func TestFetchReturnsWholePoolWhenShort(t *testing.T) {
	bank := testBank(t)

	full := bank.Fetch(0, "mixed", "history")
	rows := bank.Fetch(len(full)+100, "mixed", "history")
	if len(rows) != len(full) {
		t.Fatalf("short pool: expected %d rows, got %d", len(full), len(rows))
	}
}

func TestFetchSamplesWithoutReplacement(t *testing.T) {
	bank := testBank(t)

	rows := bank.Fetch(50, "mixed", "science")
	for text, count := range questionTexts(rows) {
		if count != 1 {
			t.Fatalf("question %q sampled %d times", text, count)
		}
	}
}

func TestFetchFiltersByDifficulty(t *testing.T) {
	bank := testBank(t)

	rows := bank.Fetch(0, "easy", "gk")
	if len(rows) == 0 {
		t.Fatalf("expected easy rows in gk pool")
	}
	for _, row := range rows {
		if got := rowDifficulty(row); got != "easy" {
			t.Fatalf("difficulty filter leaked row with difficulty %q", got)
		}
	}

	mixed := bank.Fetch(0, "mixed", "gk")
	if len(rows) >= len(mixed) {
		t.Fatalf("expected filtered pool (%d) to be smaller than mixed pool (%d)", len(rows), len(mixed))
	}
}

func TestFetchUnknownSlugFallsBackToAllCategories(t *testing.T) {
	bank := testBank(t)

	all := bank.Fetch(0, "mixed", "")
	unknown := bank.Fetch(0, "mixed", "no-such-category")
	if len(unknown) != len(all) {
		t.Fatalf("unknown slug pool = %d rows, want combined pool of %d", len(unknown), len(all))
	}

	single := bank.Fetch(0, "mixed", "sports")
	if len(all) <= len(single) {
		t.Fatalf("combined pool (%d) should exceed single category pool (%d)", len(all), len(single))
	}
}

func TestFetchDoesNotMutateBankOrder(t *testing.T) {
	bank := testBank(t)

	before := make([]string, 0)
	for _, row := range bank.pools["gk"] {
		text, _ := row["question"].(string)
		before = append(before, text)
	}

	bank.Fetch(2, "mixed", "gk")

	for idx, row := range bank.pools["gk"] {
		text, _ := row["question"].(string)
		if text != before[idx] {
			t.Fatalf("bank pool mutated at index %d", idx)
		}
	}
}
