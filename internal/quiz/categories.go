package quiz

import "strings"

// Category maps a local slug to its label and the closest Open Trivia
// DB category id ("js" rides on OTDB's Science: Computers).
type Category struct {
	Slug      string `json:"slug"`
	Label     string `json:"label"`
	OpenTDBID int    `json:"opentdb_id"`
}

var categories = []Category{
	{Slug: "gk", Label: "General Knowledge", OpenTDBID: 9},
	{Slug: "js", Label: "JavaScript", OpenTDBID: 18},
	{Slug: "science", Label: "Science", OpenTDBID: 17},
	{Slug: "sports", Label: "Sports", OpenTDBID: 21},
	{Slug: "geography", Label: "Geography", OpenTDBID: 22},
	{Slug: "history", Label: "History", OpenTDBID: 23},
}

// Categories returns the selectable category catalog.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryID resolves a slug to its Open Trivia DB id, 0 when the
// slug is unknown (the remote request is then sent unfiltered).
func CategoryID(slug string) int {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, category := range categories {
		if category.Slug == slug {
			return category.OpenTDBID
		}
	}
	return 0
}
