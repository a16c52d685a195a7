package storage

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/ghosecorp/fdbreader/internal/util"
)

// Charset names the character set text columns are decoded with.
type Charset string

const (
	CharsetUTF8     Charset = "UTF8"
	CharsetNone     Charset = "NONE"
	CharsetISO88591 Charset = "ISO8859_1"
	CharsetWin1250  Charset = "WIN1250"
	CharsetWin1251  Charset = "WIN1251"
	CharsetWin1252  Charset = "WIN1252"
)

var singleByteCharsets = map[Charset]encoding.Encoding{
	CharsetISO88591: charmap.ISO8859_1,
	CharsetWin1250:  charmap.Windows1250,
	CharsetWin1251:  charmap.Windows1251,
	CharsetWin1252:  charmap.Windows1252,
}

// Charsets lists every supported charset name.
func Charsets() []Charset {
	return []Charset{CharsetUTF8, CharsetNone, CharsetISO88591, CharsetWin1250, CharsetWin1251, CharsetWin1252}
}

// ParseCharset accepts a charset name in any case.
func ParseCharset(name string) (Charset, error) {
	cs := Charset(strings.ToUpper(strings.TrimSpace(name)))
	if cs == "" {
		return CharsetUTF8, nil
	}
	for _, known := range Charsets() {
		if cs == known {
			return cs, nil
		}
	}
	return "", util.NewError(util.ErrInvalidArgument, fmt.Sprintf("unsupported charset %q", name), nil)
}

// Decode converts raw column bytes to a string. UTF8 rejects invalid
// sequences, NONE replaces them.
func (c Charset) Decode(b []byte) (string, error) {
	switch c {
	case CharsetUTF8, "":
		if !utf8.Valid(b) {
			return "", fmt.Errorf("invalid UTF-8 string % x", b)
		}
		return string(b), nil
	case CharsetNone:
		return strings.ToValidUTF8(string(b), "�"), nil
	}

	enc, ok := singleByteCharsets[c]
	if !ok {
		return "", util.NewError(util.ErrInvalidArgument, fmt.Sprintf("unsupported charset %q", string(c)), nil)
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
