package domain

import (
	"time"

	"github.com/google/uuid"
)

// CommentIndent is the display padding, in pixels, per nesting level.
const CommentIndent = 30

// Comment is one post in a trip's discussion. ParentID is nil for a
// top-level comment. Depth is 0 at the top level and parent depth + 1 for
// a reply. Comments are immutable once stored.
type Comment struct {
	ID         uuid.UUID
	TripID     uuid.UUID
	AuthorID   uuid.UUID
	AuthorName string // populated on reads from the author's profile
	ParentID   *uuid.UUID
	Text       string
	Depth      int
	CreatedAt  time.Time
}

// IsReply reports whether c answers another comment.
func (c Comment) IsReply() bool {
	return c.ParentID != nil
}

// ThreadedComment is a comment positioned in display order.
type ThreadedComment struct {
	Comment
	Replies int // number of direct replies
}

// Padding returns the indentation for rendering the comment.
func (c ThreadedComment) Padding() int {
	return c.Depth * CommentIndent
}
