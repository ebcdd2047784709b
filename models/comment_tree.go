package models

// CommentNode is a comment plus its direct replies, for nested display.
type CommentNode struct {
	PublicComment
	Children []*CommentNode `json:"children"`
}

// BuildCommentTree turns a flat, parent-referencing collection into a nested
// structure. A parentId that does not resolve within the input set degrades to
// root placement; deletion orphaning makes such references legal, so this is
// not an error. Cycles cannot occur because a parent always predates its
// children.
func BuildCommentTree(comments []PublicComment) []*CommentNode {
	nodes := make(map[string]*CommentNode, len(comments))
	ordered := make([]*CommentNode, 0, len(comments))
	for _, c := range comments {
		node := &CommentNode{PublicComment: c, Children: []*CommentNode{}}
		nodes[c.ID] = node
		ordered = append(ordered, node)
	}

	roots := make([]*CommentNode, 0, len(comments))
	for _, node := range ordered {
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
