package domain

import "time"

// Post is a forum entry. Comments are appended in place and never edited.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    Principal `json:"author"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	Likes     int       `json:"likes"`
	Solved    bool      `json:"solved"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID        int64     `json:"id"`
	Author    Principal `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPost(title string, author Principal, content, category string) *Post {
	return &Post{
		ID:        NextID(),
		Title:     title,
		Author:    author,
		Content:   content,
		Category:  category,
		Comments:  []Comment{},
		CreatedAt: time.Now().UTC(),
	}
}

func NewComment(author Principal, content string) *Comment {
	return &Comment{
		ID:        NextID(),
		Author:    author,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
