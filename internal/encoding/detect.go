// Package encoding normalizes uploaded text files to UTF-8 before parsing.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Spreadsheet tools on Windows save "Unicode text" as UTF-16 with a BOM.
var boms = []struct {
	prefix []byte
	enc    xenc.Encoding
}{
	{[]byte{0xFF, 0xFE}, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{[]byte{0xFE, 0xFF}, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

// charsets maps chardet results to decoders. Anything unknown falls back to Windows-1252.
var charsets = map[string]xenc.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
	"UTF-16LE":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"UTF-16BE":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// Detect inspects the head of a file and returns the encoding to decode it
// with, or nil when the bytes are already UTF-8.
func Detect(head []byte) xenc.Encoding {
	for _, b := range boms {
		if bytes.HasPrefix(head, b.prefix) {
			return b.enc
		}
	}

	if utf8.Valid(head) {
		return nil
	}

	result, err := chardet.NewTextDetector().DetectBest(head)
	if err == nil {
		if result.Charset == "UTF-8" {
			return nil
		}

		if e, ok := charsets[result.Charset]; ok {
			return e
		}
	}

	return charmap.Windows1252
}

// NewUTF8Reader returns a reader yielding the content of r as UTF-8.
// A UTF-8 BOM is dropped.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
		return br, nil
	}

	e := Detect(head)
	if e == nil {
		return br, nil
	}

	return transform.NewReader(br, e.NewDecoder()), nil
}
