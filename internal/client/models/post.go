package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Post is one chat message as shown to the user.
type Post struct {
	Author    string
	Timestamp int64
	Text      string
	// ID is the raw timestamp string used by the remote side to identify the
	// post (DeletePost takes it back verbatim).
	ID string
	// Undated is set when the wire timestamp could not be parsed.
	Undated bool
}

type stringAttr struct {
	S string `json:"S"`
}

// wirePost is the DynamoDB item shape returned by GetPosts.
type wirePost struct {
	Alias     stringAttr `json:"Alias"`
	Timestamp stringAttr `json:"Timestamp"`
	Message   stringAttr `json:"Message"`
}

func (w wirePost) toPost() Post {
	p := Post{Author: w.Alias.S, Text: w.Message.S, ID: w.Timestamp.S}
	ts, err := strconv.ParseInt(w.Timestamp.S, 10, 64)
	if err != nil {
		p.Undated = true
		return p
	}
	p.Timestamp = ts
	return p
}

// DecodePosts converts the data field of a successful GetPosts envelope.
// Order is preserved (the remote side returns newest first). A null or
// empty data field yields no posts.
func DecodePosts(data json.RawMessage) ([]Post, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var items []wirePost
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]Post, 0, len(items))
	for _, it := range items {
		posts = append(posts, it.toPost())
	}
	return posts, nil
}
