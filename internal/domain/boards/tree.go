package boards

import "sort"

// Node is a board with its nested children.
type Node struct {
	Board    Board  `json:"board"`
	Children []Node `json:"children,omitempty"`
}

// BuildTree nests boards under their parents, ordering siblings by OrderIndex then name.
// Boards whose parent is missing become roots. A legacy cycle is broken at the node
// that closes it, which is then treated as a root.
func BuildTree(list []Board) []Node {
	byID := make(map[string]Board, len(list))
	for _, b := range list {
		byID[b.ID] = b
	}

	children := map[string][]Board{}
	var roots []Board
	for _, b := range list {
		if b.ParentID == nil || *b.ParentID == "" {
			roots = append(roots, b)
			continue
		}
		if _, ok := byID[*b.ParentID]; !ok || inCycle(byID, b.ID) {
			roots = append(roots, b)
			continue
		}
		children[*b.ParentID] = append(children[*b.ParentID], b)
	}

	sortBoards(roots)
	out := make([]Node, 0, len(roots))
	for _, r := range roots {
		out = append(out, buildNode(r, children, map[string]bool{}))
	}
	return out
}

func buildNode(b Board, children map[string][]Board, seen map[string]bool) Node {
	seen[b.ID] = true
	kids := children[b.ID]
	sortBoards(kids)

	n := Node{Board: b}
	for _, k := range kids {
		if seen[k.ID] {
			continue
		}
		n.Children = append(n.Children, buildNode(k, children, seen))
	}
	return n
}

// inCycle reports whether following parent links from id leads back to id.
func inCycle(byID map[string]Board, id string) bool {
	seen := map[string]bool{}
	cur := id
	for {
		b, ok := byID[cur]
		if !ok || b.ParentID == nil || *b.ParentID == "" {
			return false
		}
		if *b.ParentID == id {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
		cur = *b.ParentID
	}
}

// WouldCycle reports whether giving board id the parent parentID would create a cycle
// (including a board parenting itself).
func WouldCycle(list []Board, id, parentID string) bool {
	if parentID == "" {
		return false
	}
	if parentID == id {
		return true
	}
	byID := make(map[string]Board, len(list))
	for _, b := range list {
		byID[b.ID] = b
	}
	seen := map[string]bool{}
	cur := parentID
	for cur != "" && !seen[cur] {
		if cur == id {
			return true
		}
		seen[cur] = true
		b, ok := byID[cur]
		if !ok || b.ParentID == nil {
			return false
		}
		cur = *b.ParentID
	}
	return false
}

// Visible drops hidden boards and everything beneath them.
func Visible(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if !n.Board.IsVisible {
			continue
		}
		n.Children = Visible(n.Children)
		out = append(out, n)
	}
	return out
}

func sortBoards(list []Board) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].OrderIndex != list[j].OrderIndex {
			return list[i].OrderIndex < list[j].OrderIndex
		}
		return list[i].Name < list[j].Name
	})
}
