package web

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"

	"github.com/dmitrijs2005/postapp/internal/client/models"
)

// buildFeed renders posts, newest first, as RSS 2.0. base is the scheme and
// host the links point at.
func buildFeed(posts []models.Post, base string, now time.Time) (string, error) {
	feed := &feeds.Feed{
		Title:       "PostApp",
		Link:        &feeds.Link{Href: base + "/"},
		Description: "Recent PostApp posts",
		Created:     now,
	}

	for _, p := range posts {
		item := &feeds.Item{
			Id:          p.ID,
			Title:       fmt.Sprintf("%s <%s>", p.Author, p.ID),
			Link:        &feeds.Link{Href: base + "/"},
			Description: p.Text,
			Content:     p.Text,
			Author:      &feeds.Author{Name: p.Author},
		}
		if !p.Undated {
			item.Created = time.Unix(p.Timestamp, 0)
		}
		feed.Items = append(feed.Items, item)
	}

	return feed.ToRss()
}
