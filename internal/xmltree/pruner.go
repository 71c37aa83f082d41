package xmltree

// Prune removes every subtree with no marked node among its descendants
// (inclusive), leaving only the paths from root down to each marked node
// intact. Grounded on xml_tree_prune_unmarked() in
// original_source/lib/src/clicon_xml_db.c: mark the XPath result set first
// (spec invariant I5's MARK bit), then sweep away everything unmarked,
// keeping ancestors of any surviving marked node.
//
// Prune mutates root in place and also returns root for chaining.
func Prune(root *XmlNode) *XmlNode {
	pruneChildren(root)
	return root
}

func pruneChildren(node *XmlNode) {
	kept := node.Children[:0]
	for _, c := range node.Children {
		if c.Mark {
			// A marked node is itself a match: its whole subtree is
			// part of the result, not just the path down to it.
			kept = append(kept, c)
			continue
		}
		pruneChildren(c)
		if len(c.Children) != 0 {
			kept = append(kept, c)
		}
	}
	node.Children = kept
}

// Mark sets node's MARK bit without touching its descendants (a single
// XPath match marks exactly the matched node; Prune keeps it and every
// ancestor by construction, and keeps its descendants verbatim since they
// were never candidates for removal in the first place).
func Mark(node *XmlNode) {
	node.Mark = true
}
