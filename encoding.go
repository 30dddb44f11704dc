package caiosm

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var encodingAliases = map[string]string{
	"latin1": "iso88591",
	"latin9": "iso885915",
	"cp1250": "windows1250",
	"cp1251": "windows1251",
	"cp1252": "windows1252",
}

func normalizeEncodingName(name string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(name)))
}

// textEncoding returns single-byte encoding by its name. Nil encoding means UTF-8 (no conversion).
func textEncoding(name string) (encoding.Encoding, error) {
	normalized := normalizeEncodingName(name)
	if normalized == "" || normalized == "utf8" {
		return nil, nil
	}
	if alias, ok := encodingAliases[normalized]; ok {
		normalized = alias
	}
	for _, enc := range charmap.All {
		stringer, ok := enc.(fmt.Stringer)
		if !ok {
			continue
		}
		if normalizeEncodingName(stringer.String()) == normalized {
			return enc, nil
		}
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "encoding '%s'", name)
}

// encodeString converts UTF-8 string into given encoding. Characters which can't be represented are replaced.
func encodeString(enc encoding.Encoding, str string) string {
	if enc == nil {
		return str
	}
	encoded, err := encoding.ReplaceUnsupported(enc.NewEncoder()).String(str)
	if err != nil {
		return str
	}
	return encoded
}
