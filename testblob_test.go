package fdt

import "encoding/binary"

// blobBuilder assembles synthetic FDT blobs in memory for tests. There
// are no real .dtb fixtures available in this tree, so every test that
// needs a parsed tree builds one with this helper instead.
type blobBuilder struct {
	structs []byte
	strings []byte
	strOff  map[string]uint32
}

func newBlobBuilder() *blobBuilder {
	b := &blobBuilder{strOff: make(map[string]uint32)}
	// Reserve offset 0 in the strings block, matching the convention that
	// a real dtc-produced blob never places a property name at offset 0.
	b.strings = append(b.strings, 0)
	return b
}

func (b *blobBuilder) putU32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	b.structs = append(b.structs, buf[:]...)
}

func (b *blobBuilder) beginNode(name string) *blobBuilder {
	b.putU32(tokenBeginNode)
	b.structs = append(b.structs, name...)
	b.structs = append(b.structs, 0)
	for len(b.structs)%4 != 0 {
		b.structs = append(b.structs, 0)
	}
	return b
}

func (b *blobBuilder) endNode() *blobBuilder {
	b.putU32(tokenEndNode)
	return b
}

func (b *blobBuilder) nop() *blobBuilder {
	b.putU32(tokenNOP)
	return b
}

func (b *blobBuilder) internString(s string) uint32 {
	if off, ok := b.strOff[s]; ok {
		return off
	}
	off := uint32(len(b.strings))
	b.strings = append(b.strings, s...)
	b.strings = append(b.strings, 0)
	b.strOff[s] = off
	return off
}

func (b *blobBuilder) prop(name string, payload []byte) *blobBuilder {
	nameOff := b.internString(name)
	b.putU32(tokenProp)
	b.putU32(uint32(len(payload)))
	b.putU32(nameOff)
	b.structs = append(b.structs, payload...)
	for len(b.structs)%4 != 0 {
		b.structs = append(b.structs, 0)
	}
	return b
}

// propCells is a convenience for prop() with a payload of big-endian u32
// cells.
func (b *blobBuilder) propCells(name string, cells ...uint32) *blobBuilder {
	payload := make([]byte, 4*len(cells))
	for i, c := range cells {
		binary.BigEndian.PutUint32(payload[i*4:], c)
	}
	return b.prop(name, payload)
}

// propString is a convenience for prop() with a single NUL-terminated
// string payload.
func (b *blobBuilder) propString(name, value string) *blobBuilder {
	return b.prop(name, append([]byte(value), 0))
}

// propStringList is a convenience for prop() with several NUL-separated
// strings.
func (b *blobBuilder) propStringList(name string, values ...string) *blobBuilder {
	var payload []byte
	for _, v := range values {
		payload = append(payload, v...)
		payload = append(payload, 0)
	}
	return b.prop(name, payload)
}

func (b *blobBuilder) end() *blobBuilder {
	b.putU32(tokenEnd)
	return b
}

// build assembles the header, structure block, and strings block into a
// single blob ready for NewParser.
func (b *blobBuilder) build() []byte {
	const headerLen = headerSizeBytes
	offStructs := uint32(headerLen)
	sizeStructs := uint32(len(b.structs))
	offStrings := offStructs + sizeStructs
	sizeStrings := uint32(len(b.strings))
	totalSize := offStrings + sizeStrings

	blob := make([]byte, totalSize)
	binary.BigEndian.PutUint32(blob[0:4], headerMagic)
	binary.BigEndian.PutUint32(blob[4:8], totalSize)
	binary.BigEndian.PutUint32(blob[8:12], offStructs)
	binary.BigEndian.PutUint32(blob[12:16], offStrings)
	binary.BigEndian.PutUint32(blob[16:20], headerLen) // offMemRsvd: unused by the parser
	binary.BigEndian.PutUint32(blob[20:24], 17)        // version
	binary.BigEndian.PutUint32(blob[24:28], 16)        // last_comp_version
	binary.BigEndian.PutUint32(blob[28:32], 0)         // boot_cpu_id
	binary.BigEndian.PutUint32(blob[32:36], sizeStrings)
	binary.BigEndian.PutUint32(blob[36:40], sizeStructs)

	copy(blob[offStructs:], b.structs)
	copy(blob[offStrings:], b.strings)
	return blob
}
