package fdt

// ReadPropString treats prop's payload as a sequence of NUL-terminated
// strings and returns the index-th one. A NUL byte ends the current
// string; the next non-NUL byte starts string index+1, so empty strings
// (consecutive NULs) still count towards the index. Returns ("", false)
// if prop is nil or index is out of range.
func (p *Parser) ReadPropString(prop *Property, index int) (string, bool) {
	if prop == nil {
		return "", false
	}
	payload := prop.Payload
	curIndex := 0
	for i := 0; i < len(payload); i++ {
		if payload[i] == 0 {
			curIndex++
			continue
		}
		if curIndex == index {
			start := i
			for i < len(payload) && payload[i] != 0 {
				i++
			}
			return string(payload[start:i]), true
		}
	}
	return "", false
}

// ReadPropBytestring copies prop's raw payload into out and returns the
// byte count. If out is nil, it returns the byte count without copying.
// out must have at least that many bytes of capacity when non-nil.
// Returns 0 if prop is nil.
func (p *Parser) ReadPropBytestring(prop *Property, out []byte) int {
	if prop == nil {
		return 0
	}
	count := len(prop.Payload)
	if out == nil {
		return count
	}
	copy(out, prop.Payload)
	return count
}

// ReadPropCellArray interprets prop's payload as an array of tuples of
// cellsPerEntry big-endian u32 cells. If out is nil, it returns the tuple
// count (len(payload)/(4*cellsPerEntry), truncated) without decoding.
// Otherwise it decodes every tuple into out as native u32s and returns
// the tuple count. Returns 0 if prop is nil or cellsPerEntry is 0.
func (p *Parser) ReadPropCellArray(prop *Property, cellsPerEntry int, out []uint32) int {
	if prop == nil || cellsPerEntry == 0 {
		return 0
	}
	count := len(prop.Payload) / (4 * cellsPerEntry)
	if out == nil {
		return count
	}
	for i := 0; i < count; i++ {
		for c := 0; c < cellsPerEntry; c++ {
			out[i*cellsPerEntry+c] = readBE32(prop.Payload, i*cellsPerEntry+c)
		}
	}
	return count
}
