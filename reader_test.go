package fdt

import "testing"

func TestReadBE32(t *testing.T) {
	blob := []byte{0x00, 0x00, 0x00, 0x2a, 0xff, 0xff, 0xff, 0xff}
	if got := readBE32(blob, 0); got != 42 {
		t.Fatalf("readBE32(0) = %d, want 42", got)
	}
	if got := readBE32(blob, 1); got != 0xffffffff {
		t.Fatalf("readBE32(1) = %#x, want 0xffffffff", got)
	}
}

func TestAlignUp4(t *testing.T) {
	cases := map[int]int{0: 0, 1: 4, 3: 4, 4: 4, 5: 8, 8: 8}
	for in, want := range cases {
		if got := alignUp4(in); got != want {
			t.Errorf("alignUp4(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestParseHeaderBadMagic(t *testing.T) {
	blob := make([]byte, headerSizeBytes)
	if _, err := parseHeader(blob); err == nil {
		t.Fatal("expected error for zeroed header, got nil")
	}
}

func TestParseHeaderTruncated(t *testing.T) {
	blob := sampleBlob()
	if _, err := parseHeader(blob[:headerSizeBytes-1]); err == nil {
		t.Fatal("expected error for truncated header, got nil")
	}
}

func TestParseHeaderOK(t *testing.T) {
	blob := sampleBlob()
	hdr, err := parseHeader(blob)
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if hdr.magic != headerMagic {
		t.Errorf("magic = %#x, want %#x", hdr.magic, headerMagic)
	}
}
