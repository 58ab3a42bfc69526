package fdt

import "errors"

// Sentinel errors returned by NewParser. Use errors.Is to test for a
// specific cause; Options.OnError, when set, receives the same failure
// as a formatted string.
var (
	ErrTruncated           = errors.New("fdt: blob shorter than header claims")
	ErrBadMagic            = errors.New("fdt: bad magic number")
	ErrNoAllocator         = errors.New("fdt: exactly one of Options.Malloc or Options.StaticBuffer must be set")
	ErrBufferTooSmall      = errors.New("fdt: static buffer too small for blob contents")
	ErrAllocatorExhausted  = errors.New("fdt: allocator ran out of space mid-parse")
	ErrUnterminatedNode    = errors.New("fdt: node has no terminating END_NODE tag")
	ErrUnterminatedProp    = errors.New("fdt: property payload runs past end of structure block")
	ErrUnexpectedRootToken = errors.New("fdt: expected BEGIN_NODE at top level")
)
