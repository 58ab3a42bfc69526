package fdt

import "strings"

// matchName compares a node/child name against a path segment or lookup
// name, ignoring any "@unit-address" suffix on the node's own name — the
// device tree spec says path matching operates on the name before '@',
// while the stored name retains the full "name@address" form for
// display.
func matchName(nodeName []byte, want string) bool {
	if idx := indexByte(nodeName, '@'); idx >= 0 {
		nodeName = nodeName[:idx]
	}
	return string(nodeName) == want
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// Find looks up a node by slash-separated path, e.g. "/chosen" or
// "cpus/cpu". Leading, trailing, and repeated slashes are tolerated. An
// empty path or "/" returns the first root node. Returns nil if any
// segment is missing.
func (p *Parser) Find(path string) *Node {
	if len(p.roots) == 0 {
		return nil
	}
	scan := p.roots[0]
	for _, seg := range splitPath(path) {
		scan = findChildInternal(scan, seg)
		if scan == nil {
			return nil
		}
	}
	return scan
}

func splitPath(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func findChildInternal(node *Node, name string) *Node {
	for c := node.firstChild; c != nil; c = c.nextSib {
		if matchName(c.Name, name) {
			return c
		}
	}
	return nil
}

// FindChild returns node's direct child whose name matches name (ignoring
// any "@unit-address" suffix), or nil.
func (p *Parser) FindChild(node *Node, name string) *Node {
	if node == nil {
		return nil
	}
	return findChildInternal(node, name)
}

// FindProp returns node's property named name, or nil.
func (p *Parser) FindProp(node *Node, name string) *Property {
	if node == nil {
		return nil
	}
	for prop := node.firstProp; prop != nil; prop = prop.next {
		if string(prop.Name) == name {
			return prop
		}
	}
	return nil
}

// FindCompatible scans nodes in allocation order (depth-first pre-order
// of BEGIN_NODE encounter in the blob), starting just after start (or
// from the beginning if start is nil), and returns the first node whose
// "compatible" property's NUL-separated string list contains s.
func (p *Parser) FindCompatible(start *Node, s string) *Node {
	startIdx := 0
	if start != nil {
		for i, n := range p.allNodes {
			if n == start {
				startIdx = i + 1
				break
			}
		}
	}
	for i := startIdx; i < len(p.allNodes); i++ {
		n := p.allNodes[i]
		prop := p.FindProp(n, "compatible")
		if prop == nil {
			continue
		}
		for idx := 0; ; idx++ {
			str, ok := p.ReadPropString(prop, idx)
			if !ok {
				break
			}
			if str == s {
				return n
			}
		}
	}
	return nil
}

// FindPhandle returns the node whose "phandle"/"linux,phandle" property
// decodes to h, or nil if h is out of range or unregistered.
func (p *Parser) FindPhandle(h uint32) *Node {
	if p.reg == nil || int(h) >= len(p.reg.phands) {
		return nil
	}
	return p.reg.phands[h]
}

// Roots returns the parser's top-level nodes. The spec allows a
// well-formed blob only one, but a parser that encounters several
// top-level BEGIN_NODE tokens accepts all of them, in the order the last
// one parsed appears first (the same prepend convention used for
// children and properties).
func (p *Parser) Roots() []*Node {
	return p.roots
}

// GetSibling returns node's next sibling, or nil.
func (p *Parser) GetSibling(node *Node) *Node {
	if node == nil {
		return nil
	}
	return node.nextSib
}

// GetChild returns node's first child, or nil.
func (p *Parser) GetChild(node *Node) *Node {
	if node == nil {
		return nil
	}
	return node.firstChild
}

// GetParent returns node's parent, or nil for a root node.
func (p *Parser) GetParent(node *Node) *Node {
	if node == nil {
		return nil
	}
	return node.parent
}

// GetProp returns node's index-th property in list order (reverse of
// blob order), or nil if index is out of range.
func (p *Parser) GetProp(node *Node, index uint32) *Property {
	if node == nil {
		return nil
	}
	prop := node.firstProp
	for i := uint32(0); prop != nil; i++ {
		if i == index {
			return prop
		}
		prop = prop.next
	}
	return nil
}

// Stat summarizes node: its display name (the literal root name is "/"),
// and counts of its children, properties, and siblings (every node under
// the same parent, node itself included).
func (p *Parser) Stat(node *Node) NodeStat {
	if node == nil {
		return NodeStat{}
	}
	name := string(node.Name)
	if node.parent == nil && name == "" {
		name = "/"
	}

	var stat NodeStat
	stat.Name = name
	for c := node.firstChild; c != nil; c = c.nextSib {
		stat.ChildCount++
	}
	for pr := node.firstProp; pr != nil; pr = pr.next {
		stat.PropCount++
	}

	siblings := node.firstSiblingList(p)
	for s := siblings; s != nil; s = s.nextSib {
		stat.SiblingCount++
	}
	return stat
}

// firstSiblingList returns the head of the list node belongs to: its
// parent's firstChild for a non-root node, or the Parser's first root for
// a root node.
func (node *Node) firstSiblingList(p *Parser) *Node {
	if node.parent != nil {
		return node.parent.firstChild
	}
	if len(p.roots) == 0 {
		return node
	}
	return p.roots[0]
}
