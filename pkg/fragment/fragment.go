// Package fragment recovers verification metadata embedded in URL fragments.
// Two micro-formats are recognized: link fingerprints of the form
// "#hash(<algorithm>:<hex>)" and metalink references of the form
// "#!meta[link](3|4)!<percent-encoded-target>". Extraction degrades
// gracefully: an unparsable fragment means "no metadata present", never an
// error, since fragments commonly carry unrelated page data.
package fragment

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/cperrin88/linkhash/pkg/hashes"
)

var (
	// Algorithm token is case-insensitive; digits may be grouped with hyphens.
	hashPattern = regexp.MustCompile(`(?i)^hash\((md5|sha(?:1|256|384|512)?):([0-9a-f]+(?:-[0-9a-f]+)*)\)$`)

	// Accepts !meta3!, !meta4!, !metalink3! and !metalink4! prefixes.
	metalinkPattern = regexp.MustCompile(`(?i)^!meta(?:link)?[34]!(.+)$`)
)

// DecodeFunc converts text in a declared charset to UTF-8. A nil DecodeFunc
// leaves the text as-is.
type DecodeFunc func(text, charset string) (string, error)

// ExtractHash recovers a link fingerprint from the URL's fragment. The second
// return value is false when no well-formed fingerprint is present; a matched
// pattern whose digest fails validation (wrong length, non-hex) is treated
// the same as no fingerprint at all.
func ExtractHash(u *url.URL) (hashes.Hash, bool) {
	if u == nil || u.Fragment == "" {
		return hashes.Hash{}, false
	}
	m := hashPattern.FindStringSubmatch(u.Fragment)
	if m == nil {
		return hashes.Hash{}, false
	}
	h, err := hashes.New(strings.ReplaceAll(m[2], "-", ""), m[1])
	if err != nil {
		return hashes.Hash{}, false
	}
	return h, true
}

// ExtractMetalink recovers a metalink reference from the URL's fragment and
// resolves it against the URL itself. The embedded target is percent-encoded
// in the link's declared charset: it is unescaped, decoded to UTF-8 through
// decode, then resolved as a reference relative to u. Any failure along the
// way is reported as "no reference present".
func ExtractMetalink(u *url.URL, charset string, decode DecodeFunc) (*url.URL, bool) {
	if u == nil {
		return nil, false
	}
	m := metalinkPattern.FindStringSubmatch(u.EscapedFragment())
	if m == nil {
		return nil, false
	}

	target, err := url.PathUnescape(m[1])
	if err != nil {
		return nil, false
	}
	if decode != nil {
		target, err = decode(target, charset)
		if err != nil {
			return nil, false
		}
	}

	ref, err := url.Parse(target)
	if err != nil {
		return nil, false
	}

	base := *u
	base.Fragment = ""
	base.RawFragment = ""
	return base.ResolveReference(ref), true
}
