// Package thread rebuilds a trip's reply tree from its flat, time-ordered
// comment list and linearizes it for display.
//
// Nodes live in an arena indexed by position; children are stored as index
// lists so the tree has no pointer cycles. Every parent reference is checked
// before a node is attached: a missing parent, a duplicate id or an
// inconsistent depth fails the whole build with domain.ErrIntegrity.
package thread

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/umoc/basecamp/backend/internal/domain"
)

type node struct {
	comment  domain.Comment
	children []int
}

// Forest is the reply forest of one trip.
type Forest struct {
	nodes []node
	index map[uuid.UUID]int
	roots []int
}

// Build constructs the forest in a single pass. comments must be ordered by
// creation time, so every parent precedes its replies.
func Build(comments []domain.Comment) (*Forest, error) {
	f := &Forest{
		nodes: make([]node, 0, len(comments)),
		index: make(map[uuid.UUID]int, len(comments)),
	}
	for _, c := range comments {
		if err := f.add(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *Forest) add(c domain.Comment) error {
	if _, dup := f.index[c.ID]; dup {
		return fmt.Errorf("%w: duplicate comment %s", domain.ErrIntegrity, c.ID)
	}

	pos := len(f.nodes)
	if c.ParentID == nil {
		if c.Depth != 0 {
			return fmt.Errorf("%w: top-level comment %s has depth %d", domain.ErrIntegrity, c.ID, c.Depth)
		}
		f.roots = append(f.roots, pos)
	} else {
		parent, ok := f.index[*c.ParentID]
		if !ok {
			return fmt.Errorf("%w: comment %s replies to unknown comment %s", domain.ErrIntegrity, c.ID, *c.ParentID)
		}
		if want := f.nodes[parent].comment.Depth + 1; c.Depth != want {
			return fmt.Errorf("%w: comment %s has depth %d, want %d", domain.ErrIntegrity, c.ID, c.Depth, want)
		}
		f.nodes[parent].children = append(f.nodes[parent].children, pos)
	}

	f.nodes = append(f.nodes, node{comment: c})
	f.index[c.ID] = pos
	return nil
}

// Len returns the number of comments in the forest.
func (f *Forest) Len() int {
	return len(f.nodes)
}

// Flatten returns the comments in depth-first pre-order: each top-level
// comment followed by its replies, siblings in chronological order.
func (f *Forest) Flatten() []domain.ThreadedComment {
	out := make([]domain.ThreadedComment, 0, len(f.nodes))

	stack := make([]int, 0, len(f.roots))
	for i := len(f.roots) - 1; i >= 0; i-- {
		stack = append(stack, f.roots[i])
	}
	for len(stack) > 0 {
		pos := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := f.nodes[pos]
		out = append(out, domain.ThreadedComment{Comment: n.comment, Replies: len(n.children)})

		// Push in reverse so the eldest reply is popped first.
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return out
}

// Thread builds the forest for comments and flattens it.
func Thread(comments []domain.Comment) ([]domain.ThreadedComment, error) {
	f, err := Build(comments)
	if err != nil {
		return nil, err
	}
	return f.Flatten(), nil
}
