package xmltree

// Node is a namespace-tolerant view of one XML element. Element and
// attribute names carry only the local part; the prefix is discarded
// because issuing authorities declare namespaces inconsistently or not at
// all. Whitespace-only text between elements is not retained.
type Node struct {
	Name     string
	Attr     map[string]string
	Text     string
	Children []*Node
}

// Find returns the first node with the given local name, searching
// depth-first in document order. The receiver itself is a candidate.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node with the given local name in document order,
// including the receiver. A matching node's subtree is not searched again,
// so nested repetitions of a container name yield the outermost match.
func (n *Node) FindAll(name string) []*Node {
	if n == nil {
		return nil
	}
	if n.Name == name {
		return []*Node{n}
	}
	var matches []*Node
	for _, child := range n.Children {
		matches = append(matches, child.FindAll(name)...)
	}
	return matches
}

// FindAlias resolves an ordered alias list: for each alias in priority
// order, the whole subtree is searched before the next alias is tried, so
// the configured priority wins over document order.
func (n *Node) FindAlias(aliases []string) *Node {
	for _, alias := range aliases {
		if found := n.Find(alias); found != nil {
			return found
		}
	}
	return nil
}
