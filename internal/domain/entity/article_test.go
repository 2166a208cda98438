package entity_test

import (
	"testing"
	"time"

	"techwatch/internal/domain/entity"
)

func TestArticleWithDescription(t *testing.T) {
	published := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	original := entity.Article{
		Title:       "Go 1.25 released",
		Link:        "https://go.dev/blog/go1.25",
		Description: "The Go team announced the release of Go 1.25.",
		PublishedAt: published,
		Source:      "Go Blog",
		Category:    "Dev",
	}

	translated := original.WithDescription("L'équipe Go a annoncé la sortie de Go 1.25.")

	if translated.Description == original.Description {
		t.Fatal("WithDescription() did not replace the description")
	}
	if original.Description != "The Go team announced the release of Go 1.25." {
		t.Error("WithDescription() mutated the original article")
	}
	if translated.Title != original.Title || translated.Link != original.Link {
		t.Error("WithDescription() changed fields other than the description")
	}
	if !translated.PublishedAt.Equal(published) {
		t.Error("WithDescription() changed the publish timestamp")
	}
}
