// Package fdt parses Flattened Device Tree (FDT / "device tree blob")
// images and exposes a read-only query API over the resulting node tree.
//
// # Quick Start
//
//	blob, err := os.ReadFile("board.dtb")
//	if err != nil {
//		log.Fatal(err)
//	}
//	p, err := fdt.NewParser(blob, fdt.Options{Malloc: fdt.GoMalloc})
//	if err != nil {
//		log.Fatal(err)
//	}
//	chosen := p.Find("/chosen")
//	if chosen != nil {
//		if prop := p.FindProp(chosen, "bootargs"); prop != nil {
//			s, _ := p.ReadPropString(prop, 0)
//			fmt.Println(s)
//		}
//	}
//
// # Memory
//
// A Parser allocates every Node and Property it creates from a single
// region acquired once during NewParser, sized from a pre-scan of the
// blob's structure block. Two allocation strategies are supported: a
// host-supplied Malloc/Free pair (Options.Malloc, dynamic sizing), or a
// caller-supplied fixed buffer (Options.StaticBuffer) whose length caps
// the parse's size requirement. In both modes the node, property, and
// phandle tables are ordinary Go slices; the static buffer's bytes are
// not used as storage. Exactly one of the two must be configured.
//
// # Concurrency
//
// NewParser is not safe to call concurrently on Options that share a
// StaticBuffer or Malloc/Free pair. Once NewParser returns, the resulting
// *Parser is immutable and safe for concurrent use by multiple goroutines
// performing only queries (Find, FindChild, FindProp, FindCompatible,
// FindPhandle, GetSibling, GetChild, GetParent, GetProp, Stat, and the
// property decoders). There is no package-level state; independent
// *Parser values never interact, so a process may hold as many as it
// likes.
//
// # Error Handling
//
// Structural problems with the blob itself (bad magic, a node or
// property that runs past the end of the structure block, a
// misconfigured Options) are reported by returning an error from
// NewParser and, if Options.OnError is set, by also invoking it with a
// human-readable message. Lookup misses — a path that doesn't exist, a
// property that isn't present, an out-of-range phandle — are ordinary
// nil or zero-value returns and never touch OnError.
package fdt
