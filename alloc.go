package fdt

import "fmt"

// Options configures a Parser. Exactly one of Malloc or StaticBuffer must
// be set: Malloc selects dynamic sizing (one allocation, sized from a
// pre-scan of the blob, freed by Close), StaticBuffer selects static
// sizing against a caller-supplied capacity budget that NewParser never
// grows past.
type Options struct {
	// Malloc allocates a zeroed byte slice of the requested length. Called
	// exactly once, during NewParser, after the pre-scan.
	Malloc func(length uint32) ([]byte, error)
	// StaticBuffer bounds static-mode parsing: its length is the hard
	// ceiling NewParser's pre-scan-derived size requirement is checked
	// against, rejecting the blob with ErrBufferTooSmall if it would
	// need more. Node, Property, and phandle storage is NOT carved out of
	// StaticBuffer's bytes — those types hold Go pointers and slices, and
	// reinterpreting arbitrary []byte memory as structs containing them
	// via unsafe would desync that memory from the garbage collector's
	// per-allocation pointer bitmap, corrupting collection. Storage
	// instead comes from ordinary Go slices the GC tracks normally; this
	// option only enforces the capacity contract, not the storage
	// location. Mutually exclusive with Malloc.
	StaticBuffer []byte
	// Free releases a slice previously returned by Malloc. Called at most
	// once, by Close. May be nil if the host allocator doesn't need it.
	Free func(buf []byte)
	// OnError, if set, is invoked with a human-readable message whenever
	// NewParser fails. Never invoked for ordinary query misses.
	OnError func(why string)
}

// GoMalloc is a ready-made Options.Malloc backed by make([]byte, length).
// Options.Free may be left nil when using it; the garbage collector
// reclaims the buffer once the Parser is no longer reachable.
func GoMalloc(length uint32) ([]byte, error) {
	return make([]byte, length), nil
}

// Allocator hands out Node and Property storage for a single parse. A
// Parser acquires exactly one Allocator, during NewParser, and uses it
// until the parse completes; nothing is allocated afterwards.
type Allocator interface {
	AllocNode() (*Node, error)
	AllocProp() (*Property, error)
}

// region is the bump arena both Allocator implementations allocate node,
// property, and phandle storage from. Slice headers for the three
// sub-regions are fixed once, at construction, and never reallocated;
// every *Node and *Property a Parser hands out points into
// region.nodes/region.props for the Parser's entire lifetime.
type region struct {
	nodes  []Node
	nUsed  int
	props  []Property
	pUsed  int
	phands []*Node
}

func (r *region) AllocNode() (*Node, error) {
	if r.nUsed >= len(r.nodes) {
		return nil, ErrAllocatorExhausted
	}
	n := &r.nodes[r.nUsed]
	r.nUsed++
	return n, nil
}

func (r *region) AllocProp() (*Property, error) {
	if r.pUsed >= len(r.props) {
		return nil, ErrAllocatorExhausted
	}
	p := &r.props[r.pUsed]
	r.pUsed++
	return p, nil
}

// hostAllocator is the dynamic-mode Allocator: its region was sized from
// a host-supplied Options.Malloc, and release hands the same buffer back
// to Options.Free.
type hostAllocator struct {
	*region
	buf  []byte
	free func([]byte)
}

func (h *hostAllocator) release() {
	if h.free != nil && h.buf != nil {
		h.free(h.buf)
		h.buf = nil
	}
}

// staticAllocator is the static-mode Allocator: sizing is checked against
// a caller-supplied capacity budget (Options.StaticBuffer's length) that
// NewParser never grows past, but node/property/phandle storage is its
// own region, not the budget buffer's bytes — see Options.StaticBuffer.
type staticAllocator struct {
	*region
}

// releaser is implemented by Allocators that own a buffer needing
// explicit release. staticAllocator does not implement it: the caller
// owns Options.StaticBuffer and Close has nothing to do with it.
type releaser interface {
	release()
}

// regionHolder exposes the shared arena underneath an Allocator, for the
// Parser fields (phandle table, node/property storage) that aren't part
// of the Allocator abstraction itself.
type regionHolder interface {
	underlying() *region
}

func (h *hostAllocator) underlying() *region   { return h.region }
func (s *staticAllocator) underlying() *region { return s.region }

// These strides don't need to match Go's in-memory struct layout; region
// sizing only has to produce an upper bound against which a caller-sized
// StaticBuffer, or a host Malloc's return value, is checked.
const (
	nodeStride  = 64
	propStride  = 32
	phandStride = 8
)

// newAllocator validates Options, sizes a region for nNodes nodes and
// nProps properties (plus one phandle slot per node, the worst case of
// every node declaring a phandle), and returns the Allocator a Parser
// allocates its tree from.
func newAllocator(nNodes, nProps uint32, opts Options) (Allocator, error) {
	haveMalloc := opts.Malloc != nil
	haveStatic := opts.StaticBuffer != nil
	if haveMalloc == haveStatic {
		return nil, ErrNoAllocator
	}

	nodeBytes := uint64(nNodes) * nodeStride
	propBytes := uint64(nProps) * propStride
	phandBytes := uint64(nNodes) * phandStride
	total := nodeBytes + propBytes + phandBytes

	reg := &region{
		nodes:  make([]Node, nNodes),
		props:  make([]Property, nProps),
		phands: make([]*Node, nNodes),
	}

	if haveMalloc {
		buf, err := opts.Malloc(uint32(total))
		if err != nil {
			return nil, fmt.Errorf("allocating parser region: %w", err)
		}
		if uint64(len(buf)) < total {
			return nil, fmt.Errorf("allocating parser region: %w", ErrAllocatorExhausted)
		}
		// The host buffer governs whether this parse is allowed to
		// proceed at all and is what gets handed back to Free, but the
		// actual Node/Property/phandle storage lives in the region's
		// typed Go slices above. Carving *Node/*Property pointers out of
		// a raw []byte would require unsafe casts for no real benefit:
		// Go's GC already gives the arena exactly the property the
		// original C allocator existed to provide — a stable backing
		// array nothing outlives.
		return &hostAllocator{region: reg, buf: buf, free: opts.Free}, nil
	}

	// opts.StaticBuffer itself is only a capacity budget, checked here and
	// never touched again: actual storage is reg's ordinary Go slices,
	// for the reasons given on Options.StaticBuffer's doc comment.
	if uint64(len(opts.StaticBuffer)) < total {
		return nil, fmt.Errorf("using static buffer: %w", ErrBufferTooSmall)
	}
	return &staticAllocator{region: reg}, nil
}
