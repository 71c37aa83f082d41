package xmltree

import "github.com/beevik/etree"

// ToEtree renders node's children into an *etree.Document rooted at an
// element named rootTag (the root XmlNode itself is synthetic and carries
// no tag of its own on the wire). Grounded on the
// ToXML/ToXmlInternal pattern of the teacher's pkg/tree/xml.go, simplified
// since this tree has no delete/remove-operation rendering to do: that
// belongs to the mutation engine's edit-tree input, not to a read result.
func ToEtree(root *XmlNode, rootTag string) *etree.Document {
	doc := etree.NewDocument()
	wrapper := doc.CreateElement(rootTag)
	for _, c := range root.Children {
		toXmlInternal(c, wrapper)
	}
	return doc
}

func toXmlInternal(node *XmlNode, parent *etree.Element) {
	elem := parent.CreateElement(node.Name)
	if node.IsBody() {
		elem.SetText(*node.Body)
		return
	}
	for _, c := range node.Children {
		toXmlInternal(c, elem)
	}
}

// IdentityMap records, for a document produced by ToEtree, which XmlNode
// each *etree.Element corresponds to. Used by the xpath package to map an
// etree path-query match back onto the tree so it can be marked for
// pruning.
type IdentityMap map[*etree.Element]*XmlNode

// ToEtreeWithIdentity behaves like ToEtree but also returns the
// element-to-node identity map built while serializing.
func ToEtreeWithIdentity(root *XmlNode, rootTag string) (*etree.Document, IdentityMap) {
	doc := etree.NewDocument()
	wrapper := doc.CreateElement(rootTag)
	idmap := make(IdentityMap)
	for _, c := range root.Children {
		toXmlInternalTracked(c, wrapper, idmap)
	}
	return doc, idmap
}

func toXmlInternalTracked(node *XmlNode, parent *etree.Element, idmap IdentityMap) {
	elem := parent.CreateElement(node.Name)
	idmap[elem] = node
	if node.IsBody() {
		elem.SetText(*node.Body)
		return
	}
	for _, c := range node.Children {
		toXmlInternalTracked(c, elem, idmap)
	}
}
