package fdt

import (
	"encoding/binary"
	"fmt"
)

// Token values found in the structure block, per the Devicetree
// Specification's FDT_* constants.
const (
	tokenBeginNode uint32 = 1
	tokenEndNode   uint32 = 2
	tokenProp      uint32 = 3
	tokenNOP       uint32 = 4
	tokenEnd       uint32 = 9
)

const headerMagic uint32 = 0xD00DFEED

// header mirrors struct fdt_header: ten big-endian u32 fields at offset 0.
type header struct {
	magic           uint32
	totalSize       uint32
	offStructs      uint32
	offStrings      uint32
	offMemRsvd      uint32
	version         uint32
	lastCompVersion uint32
	bootCPUID       uint32
	sizeStrings     uint32
	sizeStructs     uint32
}

const headerSizeBytes = 10 * 4

// readBE32 reads the big-endian 32-bit cell at cell index cellOffset
// (byte offset cellOffset*4) from blob. The caller guarantees the read is
// in bounds; every call site here derives cellOffset from a bound already
// checked against len(blob).
func readBE32(blob []byte, cellOffset int) uint32 {
	return binary.BigEndian.Uint32(blob[cellOffset*4:])
}

func parseHeader(blob []byte) (header, error) {
	if len(blob) < headerSizeBytes {
		return header{}, fmt.Errorf("reading header: %w", ErrTruncated)
	}
	h := header{
		magic:           binary.BigEndian.Uint32(blob[0:4]),
		totalSize:       binary.BigEndian.Uint32(blob[4:8]),
		offStructs:      binary.BigEndian.Uint32(blob[8:12]),
		offStrings:      binary.BigEndian.Uint32(blob[12:16]),
		offMemRsvd:      binary.BigEndian.Uint32(blob[16:20]),
		version:         binary.BigEndian.Uint32(blob[20:24]),
		lastCompVersion: binary.BigEndian.Uint32(blob[24:28]),
		bootCPUID:       binary.BigEndian.Uint32(blob[28:32]),
		sizeStrings:     binary.BigEndian.Uint32(blob[32:36]),
		sizeStructs:     binary.BigEndian.Uint32(blob[36:40]),
	}
	if h.magic != headerMagic {
		return header{}, fmt.Errorf("reading header: %w", ErrBadMagic)
	}
	if uint64(len(blob)) < uint64(h.totalSize) {
		return header{}, fmt.Errorf("reading header: %w", ErrTruncated)
	}
	if uint64(h.offStructs)+uint64(h.sizeStructs) > uint64(len(blob)) {
		return header{}, fmt.Errorf("reading structure block bounds: %w", ErrTruncated)
	}
	if uint64(h.offStrings)+uint64(h.sizeStrings) > uint64(len(blob)) {
		return header{}, fmt.Errorf("reading strings block bounds: %w", ErrTruncated)
	}
	return h, nil
}

func alignUp4(n int) int {
	return (n + 3) &^ 3
}

// nameAt scans blob starting at byteOffset for a NUL terminator and
// returns the name as a slice into blob (excluding the NUL) plus the
// byte offset of the first cell-aligned position after the terminator.
func nameAt(blob []byte, byteOffset int) ([]byte, int, error) {
	end := byteOffset
	for end < len(blob) && blob[end] != 0 {
		end++
	}
	if end >= len(blob) {
		return nil, 0, ErrUnterminatedNode
	}
	name := blob[byteOffset:end]
	next := alignUp4(end+1-byteOffset) + byteOffset
	return name, next, nil
}

// cStringAt reads a NUL-terminated string from blob at byteOffset without
// any alignment requirement, used for strings-block lookups.
func cStringAt(blob []byte, byteOffset int) []byte {
	end := byteOffset
	for end < len(blob) && blob[end] != 0 {
		end++
	}
	return blob[byteOffset:end]
}
