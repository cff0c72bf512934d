package comments

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
)

type arenaEntry struct {
	comment  models.Comment
	children []int
}

// BuildTree arranges comments into reply threads. Input must be ordered oldest
// first; roots come back newest first and replies oldest first. A reply whose
// parent is not in rows is dropped together with its own replies.
func BuildTree(rows []models.Comment) []Node {
	arena := make([]arenaEntry, len(rows))
	index := make(map[uuid.UUID]int, len(rows))
	for i, row := range rows {
		arena[i] = arenaEntry{comment: row}
		index[row.ID] = i
	}

	roots := make([]int, 0, len(rows))
	for i := range arena {
		parent := arena[i].comment.ParentID
		if parent == nil {
			roots = append(roots, i)
			continue
		}
		if p, ok := index[*parent]; ok && p != i {
			arena[p].children = append(arena[p].children, i)
		}
	}

	out := make([]Node, 0, len(roots))
	for j := len(roots) - 1; j >= 0; j-- {
		out = append(out, materialize(arena, roots[j], make(map[int]bool)))
	}
	return out
}

func materialize(arena []arenaEntry, i int, seen map[int]bool) Node {
	seen[i] = true
	node := Node{CommentDTO: NewCommentDTO(arena[i].comment), Replies: []Node{}}
	for _, child := range arena[i].children {
		if seen[child] {
			continue
		}
		node.Replies = append(node.Replies, materialize(arena, child, seen))
	}
	return node
}

// Count returns the number of comments in the forest.
func Count(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		total += 1 + Count(n.Replies)
	}
	return total
}
