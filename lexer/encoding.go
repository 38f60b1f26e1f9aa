package lexer

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nihei9/pyfront/perr"
)

// Recognized BOMs, the 4-byte UTF-32 ones before the 2-byte UTF-16 ones so
// the UTF-32-LE BOM (FF FE 00 00) is never mistaken for the UTF-16-LE BOM
// (FF FE) it shares a prefix with.
var boms = []struct {
	name string
	data []byte
}{
	{"utf-32", []byte{0xff, 0xfe, 0x00, 0x00}}, // utf-32-le
	{"utf-32", []byte{0x00, 0x00, 0xfe, 0xff}}, // utf-32-be
	{"utf-16", []byte{0xff, 0xfe}},             // utf-16-le
	{"utf-16", []byte{0xfe, 0xff}},             // utf-16-be
	{"utf-8", []byte{0xef, 0xbb, 0xbf}},
}

func matchBOM(src []byte) (name string, bomLen int) {
	for _, b := range boms {
		if bytes.HasPrefix(src, b.data) {
			return b.name, len(b.data)
		}
	}
	return "", 0
}

// scanMagicComment inspects the first two physical lines of src for a
// PEP-263 `coding:` / `coding=` magic comment and returns the case-folded
// encoding name it names, or "" if none is present.
func scanMagicComment(src []byte) string {
	lineStart := 0
	for line := 0; line < 2 && lineStart <= len(src); line++ {
		end := bytes.IndexByte(src[lineStart:], '\n')
		var lineBytes []byte
		if end == -1 {
			lineBytes = src[lineStart:]
		} else {
			lineBytes = src[lineStart : lineStart+end]
		}
		lineBytes = bytes.TrimRight(lineBytes, "\r")

		trimmed := bytes.TrimLeft(lineBytes, " \t")
		if len(trimmed) > 0 && trimmed[0] == '#' {
			text := string(trimmed)
			pos := strings.Index(text, "coding:")
			if pos == -1 {
				pos = strings.Index(text, "coding=")
			}
			if pos != -1 {
				pos += len("coding:")
				for pos < len(text) && text[pos] == ' ' {
					pos++
				}
				start := pos
				for pos < len(text) && text[pos] != ' ' && text[pos] != '\t' {
					pos++
				}
				if pos > start {
					return strings.ToLower(text[start:pos])
				}
			}
		}

		if end == -1 {
			break
		}
		lineStart += end + 1
	}
	return ""
}

// DetectEncoding implements spec.md §4.1: BOM first (UTF-32 before UTF-16),
// then a two-line magic-comment scan, with a "BOM mismatch" failure when
// both are present and disagree. It returns the canonical encoding name
// ("utf-8", "utf-16", "utf-32", or whatever the magic comment names) and the
// number of leading bytes that belong to a detected BOM (0 if none).
func DetectEncoding(src []byte) (encoding string, bomLen int, err error) {
	bomName, bomLen := matchBOM(src)

	magic := scanMagicComment(src[bomLen:])
	if magic != "" {
		normalizedMagic := strings.ReplaceAll(magic, "-", "")
		if bomName != "" && strings.ReplaceAll(bomName, "-", "") != normalizedMagic {
			return "", 0, fmt.Errorf("BOM mismatch")
		}
		return magic, bomLen, nil
	}

	if bomName != "" {
		return bomName, bomLen, nil
	}

	return "utf-8", 0, nil
}

// Decode detects the encoding of src per spec.md §4.1 and returns the
// decoded text as a UTF-8 Go string. Any BOM prefix is stripped and is not
// part of the returned text.
func Decode(src []byte) (string, error) {
	encoding, bomLen, err := DetectEncoding(src)
	if err != nil {
		return "", perr.New(err, 1, 0)
	}
	body := src[bomLen:]

	switch normalize(encoding) {
	case "utf8", "utf8bom", "ascii", "":
		return string(body), nil
	case "utf16", "utf16le":
		if bytes.HasPrefix(src, []byte{0xfe, 0xff}) {
			return decodeUTF16(body, unicode.BigEndian)
		}
		return decodeUTF16(body, unicode.LittleEndian)
	case "utf16be":
		return decodeUTF16(body, unicode.BigEndian)
	case "utf32", "utf32le":
		if bytes.HasPrefix(src, []byte{0x00, 0x00, 0xfe, 0xff}) {
			return decodeUTF32(body, true)
		}
		return decodeUTF32(body, false)
	case "utf32be":
		return decodeUTF32(body, true)
	default:
		// An unrecognized magic-comment encoding name is treated as UTF-8,
		// matching the PEP-263 fallback behavior for names Go cannot map.
		return string(body), nil
	}
}

func normalize(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", "")
	name = strings.ReplaceAll(name, "_", "")
	return name
}

func decodeUTF16(body []byte, endian unicode.Endianness) (string, error) {
	dec := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, body)
	if err != nil {
		return "", perr.New(fmt.Errorf("cannot decode utf-16 source: %w", err), 1, 0)
	}
	return string(out), nil
}

// decodeUTF32 hand-decodes UTF-32 code units into UTF-8. golang.org/x/text
// does not expose a public UTF-32 transform, unlike UTF-16, so this reads
// fixed 4-byte code units directly.
func decodeUTF32(body []byte, bigEndian bool) (string, error) {
	if len(body)%4 != 0 {
		return "", perr.New(fmt.Errorf("truncated utf-32 source"), 1, 0)
	}
	var b strings.Builder
	for i := 0; i < len(body); i += 4 {
		var r rune
		if bigEndian {
			r = rune(uint32(body[i])<<24 | uint32(body[i+1])<<16 | uint32(body[i+2])<<8 | uint32(body[i+3]))
		} else {
			r = rune(uint32(body[i]) | uint32(body[i+1])<<8 | uint32(body[i+2])<<16 | uint32(body[i+3])<<24)
		}
		if utf16.IsSurrogate(r) {
			return "", perr.New(fmt.Errorf("invalid utf-32 code point"), 1, 0)
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// ReadAllDecoded reads r to the end and decodes it with Decode.
func ReadAllDecoded(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return Decode(data)
}
