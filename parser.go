package fdt

import "fmt"

// Node is a single device-tree node. Name is a slice into the original
// blob and is valid for as long as the Parser that produced it is
// reachable. AddrCells and SizeCells are inherited from the parent at
// parse time and overridden if the node itself declares
// "#address-cells"/"#size-cells".
type Node struct {
	Name       []byte
	AddrCells  uint8
	SizeCells  uint8
	parent     *Node
	firstChild *Node
	nextSib    *Node
	firstProp  *Property
}

// Property is a single node property. Name is a slice into the blob's
// strings block; Payload is a slice into the structure block covering
// exactly the property's logical length as recorded in the blob (not the
// 4-byte-padded size).
type Property struct {
	Name    []byte
	Payload []byte
	next    *Property
}

// NodeStat summarizes a Node's position and immediate contents, mirroring
// a single depth-first listing step.
type NodeStat struct {
	Name         string
	ChildCount   uint32
	PropCount    uint32
	SiblingCount uint32
}

// Parser holds one fully-parsed device tree. It is immutable after
// NewParser returns and safe for concurrent read-only use.
type Parser struct {
	blob    []byte
	strings []byte

	alloc Allocator
	reg   *region // the arena backing alloc; kept directly for phands access

	roots    []*Node // root-level nodes, the most recently parsed one first
	allNodes []*Node // every node, in allocation (pre-order) order; backs FindCompatible
}

// NewParser validates and parses blob, returning a Parser ready for
// queries. blob must remain valid and unmodified for the lifetime of the
// returned Parser: Node and Property values borrow slices directly from
// it.
func NewParser(blob []byte, opts Options) (*Parser, error) {
	p, err := newParser(blob, opts)
	if err != nil {
		if opts.OnError != nil {
			opts.OnError(err.Error())
		}
		return nil, err
	}
	return p, nil
}

func newParser(blob []byte, opts Options) (*Parser, error) {
	hdr, err := parseHeader(blob)
	if err != nil {
		return nil, err
	}

	structs := blob[hdr.offStructs : hdr.offStructs+hdr.sizeStructs]
	strings := blob[hdr.offStrings : hdr.offStrings+hdr.sizeStrings]

	nNodes, nProps := prescan(structs)
	alloc, err := newAllocator(nNodes, nProps, opts)
	if err != nil {
		return nil, err
	}

	pr := &Parser{
		blob:    blob,
		strings: strings,
		alloc:   alloc,
		reg:     alloc.(regionHolder).underlying(),
	}

	cursor := 0
	for cursor+4 <= len(structs) {
		tok := readBE32(structs, cursor/4)
		switch tok {
		case tokenNOP:
			cursor += 4
		case tokenEnd:
			cursor = len(structs)
		case tokenBeginNode:
			node, next, err := pr.parseNode(structs, cursor, 2, 1, nil)
			if err != nil {
				return nil, err
			}
			if len(pr.roots) > 0 {
				node.nextSib = pr.roots[0]
			}
			pr.roots = append([]*Node{node}, pr.roots...)
			cursor = next
		default:
			return nil, fmt.Errorf("parsing top level at cell %d: %w", cursor/4, ErrUnexpectedRootToken)
		}
	}

	return pr, nil
}

// Close releases the Parser's allocated region via Options.Free, if one
// was supplied. It is a no-op for static-buffer parsers or parsers whose
// Options.Free was nil. A Parser must not be used after Close.
func (p *Parser) Close() {
	if rel, ok := p.alloc.(releaser); ok {
		rel.release()
	}
}

// prescan counts BEGIN_NODE and PROP token occurrences across every cell
// of structs, the same token-naive pass the original implementation
// performs: it inspects every cell position, not only token-aligned
// ones, and so always produces counts at or above the real totals.
func prescan(structs []byte) (nNodes, nProps uint32) {
	cells := len(structs) / 4
	for i := 0; i < cells; i++ {
		switch readBE32(structs, i) {
		case tokenBeginNode:
			nNodes++
		case tokenProp:
			nProps++
		}
	}
	return nNodes, nProps
}

// parseNode performs recursive descent starting at a BEGIN_NODE token at
// byte offset off within structs. It returns the parsed node and the
// byte offset just past its matching END_NODE.
func (p *Parser) parseNode(structs []byte, off int, addrCells, sizeCells uint8, parent *Node) (*Node, int, error) {
	if off+4 > len(structs) || readBE32(structs, off/4) != tokenBeginNode {
		return nil, 0, fmt.Errorf("parsing node at cell %d: %w", off/4, ErrUnexpectedRootToken)
	}
	off += 4

	name, off, err := nameAt(structs, off)
	if err != nil {
		return nil, 0, fmt.Errorf("parsing node name at byte %d: %w", off, err)
	}

	node, err := p.alloc.AllocNode()
	if err != nil {
		return nil, 0, err
	}
	node.Name = name
	node.AddrCells = addrCells
	node.SizeCells = sizeCells
	node.parent = parent
	p.allNodes = append(p.allNodes, node)

	for {
		if off+4 > len(structs) {
			return nil, 0, fmt.Errorf("parsing node %q: %w", name, ErrUnterminatedNode)
		}
		tok := readBE32(structs, off/4)
		switch tok {
		case tokenEndNode:
			return node, off + 4, nil
		case tokenNOP:
			off += 4
		case tokenBeginNode:
			child, next, err := p.parseNode(structs, off, node.AddrCells, node.SizeCells, node)
			if err != nil {
				return nil, 0, err
			}
			child.nextSib = node.firstChild
			node.firstChild = child
			off = next
		case tokenProp:
			prop, next, err := p.parseProp(structs, off)
			if err != nil {
				return nil, 0, err
			}
			prop.next = node.firstProp
			node.firstProp = prop
			p.recognizeSpecialProp(node, prop)
			off = next
		default:
			off += 4
		}
	}
}

// parseProp parses a PROP token at byte offset off: a 4-byte length, a
// 4-byte name offset into the strings block, then length bytes of
// payload padded up to a 4-byte boundary.
func (p *Parser) parseProp(structs []byte, off int) (*Property, int, error) {
	off += 4 // skip the PROP token itself
	if off+8 > len(structs) {
		return nil, 0, fmt.Errorf("parsing property header at byte %d: %w", off, ErrUnterminatedProp)
	}
	length := readBE32(structs, off/4)
	nameOff := readBE32(structs, off/4+1)
	off += 8

	if uint64(off)+uint64(length) > uint64(len(structs)) {
		return nil, 0, fmt.Errorf("parsing property payload at byte %d: %w", off, ErrUnterminatedProp)
	}

	prop, err := p.alloc.AllocProp()
	if err != nil {
		return nil, 0, err
	}
	prop.Name = cStringAt(p.strings, int(nameOff))
	prop.Payload = structs[off : off+int(length)]

	next := alignUp4(off + int(length))
	return prop, next, nil
}

// recognizeSpecialProp runs the fast first-byte filter the original
// implementation uses (names that matter all start with '#', 'p', or
// 'l') before doing an exact-name comparison.
func (p *Parser) recognizeSpecialProp(node *Node, prop *Property) {
	if len(prop.Name) == 0 {
		return
	}
	switch prop.Name[0] {
	case '#':
		switch string(prop.Name) {
		case "#address-cells":
			if v, ok := decodeFirstCell(prop); ok {
				node.AddrCells = uint8(v)
			}
		case "#size-cells":
			if v, ok := decodeFirstCell(prop); ok {
				node.SizeCells = uint8(v)
			}
		}
	case 'p':
		if string(prop.Name) == "phandle" {
			p.registerPhandle(node, prop)
		}
	case 'l':
		if string(prop.Name) == "linux,phandle" {
			p.registerPhandle(node, prop)
		}
	}
}

func (p *Parser) registerPhandle(node *Node, prop *Property) {
	v, ok := decodeFirstCell(prop)
	if !ok {
		return
	}
	if int(v) >= len(p.reg.phands) {
		return
	}
	p.reg.phands[v] = node
}

func decodeFirstCell(prop *Property) (uint32, bool) {
	if len(prop.Payload) < 4 {
		return 0, false
	}
	return readBE32(prop.Payload, 0), true
}
