package fdt

// sampleBlob builds a small synthetic device tree exercising the same
// shape as the worked examples: a /chosen node with bootargs, a /cpus
// node with a phandled cpu and a cpu-map cross-reference, and a /soc
// node with a ns16550a-compatible child.
func sampleBlob() []byte {
	b := newBlobBuilder()
	b.beginNode("") // root

	b.beginNode("chosen")
	b.propString("bootargs", "console=ttyS0")
	b.endNode()

	b.beginNode("cpus")
	b.propCells("#address-cells", 1)
	b.propCells("#size-cells", 0)

	b.beginNode("cpu@0")
	b.propString("device_type", "cpu")
	b.propCells("reg", 0)
	b.propCells("phandle", 1)
	b.endNode()

	b.beginNode("cpu-map")
	b.beginNode("cluster0")
	b.beginNode("core1")
	b.propCells("cpu", 1)
	b.endNode() // core1
	b.endNode() // cluster0
	b.endNode() // cpu-map

	b.endNode() // cpus

	b.beginNode("soc")
	b.beginNode("serial@10000000")
	b.propStringList("compatible", "ns16550a", "ns8250")
	b.endNode()
	b.endNode() // soc

	b.endNode() // root
	b.end()
	return b.build()
}

func mustParse(blob []byte) *Parser {
	p, err := NewParser(blob, Options{Malloc: GoMalloc})
	if err != nil {
		panic(err)
	}
	return p
}
