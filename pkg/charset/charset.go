// Package charset implements the charset-aware text decoding collaborator
// used when rendering URLs for display. Encodings are resolved by their
// IANA/WHATWG labels through golang.org/x/text; percent-decoding is layered
// on top for URI display forms.
package charset

import (
	"net/url"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/cperrin88/linkhash/pkg/errors"
)

// Codec decodes text from a named charset to UTF-8. The zero value is ready
// to use; it exists so consumers can depend on an interface and tests can
// substitute failing decoders.
type Codec struct{}

// Decode converts text in the named charset to UTF-8. An empty name is
// treated as UTF-8. Unknown names fail with ErrUnknownCharset.
func (Codec) Decode(text, name string) (string, error) {
	enc, err := lookup(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().String(text)
	if err != nil {
		return "", errors.Wrapf(err, "decoding as %q", name)
	}
	return out, nil
}

// DecodeURI renders a URL string for display: percent-escapes are unescaped
// and the resulting bytes are decoded from the named charset. Malformed
// escapes or undecodable bytes fail; callers fall back to plainer forms.
func (c Codec) DecodeURI(spec, name string) (string, error) {
	raw, err := url.PathUnescape(spec)
	if err != nil {
		return "", errors.Wrap(err, "unescaping URL")
	}
	return c.Decode(raw, name)
}

// Supported reports whether name resolves to a known encoding.
func Supported(name string) bool {
	_, err := lookup(name)
	return err == nil
}

func lookup(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnknownCharset, "%q", name)
	}
	return enc, nil
}
