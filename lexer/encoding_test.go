package lexer

import "testing"

func TestDetectEncodingDefaultsToUTF8(t *testing.T) {
	enc, bomLen, err := DetectEncoding([]byte("x = 1\n"))
	if err != nil {
		t.Fatalf("DetectEncoding: %v", err)
	}
	if enc != "utf-8" || bomLen != 0 {
		t.Errorf("DetectEncoding = (%q, %d), want (\"utf-8\", 0)", enc, bomLen)
	}
}

func TestDetectEncodingUTF8BOM(t *testing.T) {
	src := append([]byte{0xef, 0xbb, 0xbf}, []byte("x = 1\n")...)
	enc, bomLen, err := DetectEncoding(src)
	if err != nil {
		t.Fatalf("DetectEncoding: %v", err)
	}
	if enc != "utf-8" || bomLen != 3 {
		t.Errorf("DetectEncoding = (%q, %d), want (\"utf-8\", 3)", enc, bomLen)
	}
}

func TestDetectEncodingUTF32LEBOMNotConfusedWithUTF16(t *testing.T) {
	src := append([]byte{0xff, 0xfe, 0x00, 0x00}, []byte("x = 1\n")...)
	enc, bomLen, err := DetectEncoding(src)
	if err != nil {
		t.Fatalf("DetectEncoding: %v", err)
	}
	if enc != "utf-32" || bomLen != 4 {
		t.Errorf("DetectEncoding = (%q, %d), want (\"utf-32\", 4)", enc, bomLen)
	}
}

func TestDetectEncodingMagicComment(t *testing.T) {
	enc, bomLen, err := DetectEncoding([]byte("# -*- coding: latin-1 -*-\nx = 1\n"))
	if err != nil {
		t.Fatalf("DetectEncoding: %v", err)
	}
	if enc != "latin-1" || bomLen != 0 {
		t.Errorf("DetectEncoding = (%q, %d), want (\"latin-1\", 0)", enc, bomLen)
	}
}

func TestDetectEncodingBOMMagicCommentMismatch(t *testing.T) {
	src := append([]byte{0xff, 0xfe}, []byte("# coding: utf-8\n")...)
	if _, _, err := DetectEncoding(src); err == nil {
		t.Fatalf("expected BOM mismatch error")
	}
}

func TestDecodeUTF16LERoundTrips(t *testing.T) {
	src := []byte{0xff, 0xfe, 'x', 0x00, '\n', 0x00}
	text, err := Decode(src)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if text != "x\n" {
		t.Errorf("Decode = %q, want %q", text, "x\n")
	}
}
