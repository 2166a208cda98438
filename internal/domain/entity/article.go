// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article, Source, and CategoryGroup,
// along with their validation rules and domain-specific errors.
package entity

import "time"

// DefaultCategory is the category label assigned to articles whose feed
// configuration carries no category of its own.
const DefaultCategory = "Other"

// Article represents a single normalized feed entry flowing through the
// curation pipeline. Stages never mutate an Article in place; each stage
// produces new values (translation copies the article with a rewritten
// Description).
type Article struct {
	Title       string
	Link        string
	Description string
	PublishedAt time.Time
	Source      string
	Category    string
	FetchedAt   time.Time
}

// WithDescription returns a copy of the article with the description replaced.
func (a Article) WithDescription(desc string) Article {
	a.Description = desc
	return a
}

// CategoryGroup is an ordered set of articles sharing a category label,
// newest first, plus the synthesized executive summary for that category.
// It is built once per run by the digest service and not modified after.
type CategoryGroup struct {
	Category string
	Articles []Article
	Summary  string
}
