// Package hashes validates and represents externally supplied checksums for
// downloads: single (algorithm, digest) pairs, collections of one full-file
// hash plus ordered partial hashes, and the digest negotiation list offered
// to remote sources. Computing digests from byte streams is out of scope;
// this package only accepts, normalizes and round-trips hash strings.
package hashes

import (
	"strconv"
	"strings"

	"github.com/cperrin88/linkhash/pkg/errors"
)

// Algorithm describes one supported checksum algorithm: its canonical name,
// the fixed length of its lowercase hex digest, and the quality weight used
// in digest negotiation.
type Algorithm struct {
	Name      string
	HexLength int
	Weight    float64
}

// Supported algorithms. The table is fixed at init; nothing outside this
// package may register algorithms at runtime.
var (
	MD5    = Algorithm{Name: "MD5", HexLength: 32, Weight: 0.3}
	SHA1   = Algorithm{Name: "SHA1", HexLength: 40, Weight: 0.4}
	SHA256 = Algorithm{Name: "SHA256", HexLength: 64, Weight: 1}
	SHA384 = Algorithm{Name: "SHA384", HexLength: 96, Weight: 0.8}
	SHA512 = Algorithm{Name: "SHA512", HexLength: 128, Weight: 1}
)

// aliases maps normalized labels to algorithms. Keys are the result of
// normalizeLabel, so "SHA-1", "sha 1" and "Sha1" all land on the same entry.
// "SHA" is a historical alias of SHA1.
var aliases = map[string]Algorithm{
	"MD5":    MD5,
	"SHA":    SHA1,
	"SHA1":   SHA1,
	"SHA256": SHA256,
	"SHA384": SHA384,
	"SHA512": SHA512,
}

// negotiated is the fixed token order offered in digest negotiation. SHA is
// kept as a duplicate alias of SHA1 and SHA384 is deliberately absent even
// though it is accepted from embedded fingerprints; both quirks are wire
// format and must not change.
var negotiated = []struct {
	Token string
	Alg   Algorithm
}{
	{"MD5", MD5},
	{"SHA", SHA1},
	{"SHA1", SHA1},
	{"SHA256", SHA256},
	{"SHA512", SHA512},
}

// Resolve maps a hash type label to its algorithm. Matching is
// case-insensitive and ignores whitespace and hyphens, so "SHA-1", "sha1"
// and "Sha 1" all resolve to SHA1.
func Resolve(label string) (Algorithm, error) {
	alg, ok := aliases[normalizeLabel(label)]
	if !ok {
		return Algorithm{}, errors.Wrapf(errors.ErrUnknownAlgorithm, "%q", label)
	}
	return alg, nil
}

// Supported reports whether label resolves to a known algorithm.
func Supported(label string) bool {
	_, ok := aliases[normalizeLabel(label)]
	return ok
}

// Algorithms returns the supported algorithms in registry order.
func Algorithms() []Algorithm {
	return []Algorithm{MD5, SHA1, SHA256, SHA384, SHA512}
}

// Preference is one (token, weight) entry of the negotiation list.
type Preference struct {
	Token  string
	Weight float64
}

// PreferredOrder returns the negotiation list in its fixed wire order:
// MD5, SHA, SHA1, SHA256, SHA512, each with its registry weight.
func PreferredOrder() []Preference {
	prefs := make([]Preference, 0, len(negotiated))
	for _, n := range negotiated {
		prefs = append(prefs, Preference{Token: n.Token, Weight: n.Alg.Weight})
	}
	return prefs
}

// WantDigest renders the negotiation list as a quality-weighted header value,
// e.g. "MD5;q=0.3,SHA;q=0.4,SHA1;q=0.4,SHA256;q=1,SHA512;q=1".
func WantDigest() string {
	var b strings.Builder
	for i, n := range negotiated {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(n.Token)
		b.WriteString(";q=")
		b.WriteString(strconv.FormatFloat(n.Alg.Weight, 'f', -1, 64))
	}
	return b.String()
}

func normalizeLabel(label string) string {
	label = strings.ToUpper(label)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-':
			return -1
		}
		return r
	}, label)
}
