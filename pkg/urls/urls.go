//go:generate mockgen -destination=./mocks/urls.go . Decoder

// Package urls wraps download URLs in a canonical, hash-stripped form used as
// a stable identity key. Construction validates the scheme, promotes a link
// fingerprint embedded in the fragment to structured metadata and clears the
// fragment; a URL's identity deliberately excludes its fragment, which in
// this domain only ever carries verification or indirection metadata.
package urls

import (
	"encoding/json"
	"net/url"
	"sync"

	"github.com/cperrin88/linkhash/internal/logger"
	"github.com/cperrin88/linkhash/pkg/charset"
	"github.com/cperrin88/linkhash/pkg/errors"
	"github.com/cperrin88/linkhash/pkg/fragment"
	"github.com/cperrin88/linkhash/pkg/hashes"
)

// DefaultPreference is the mirror preference assigned when none is given.
const DefaultPreference = 100

// Decoder converts charset-encoded text to UTF-8. charset.Codec is the
// default implementation.
type Decoder interface {
	Decode(text, charset string) (string, error)
	DecodeURI(spec, charset string) (string, error)
}

var supportedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"data":  true,
}

// URL is a canonical download URL. The wrapped URI has an empty fragment
// after construction; any embedded fingerprint has been moved to Fingerprint.
// The serialized and display forms are memoized and never recomputed.
type URL struct {
	uri         *url.URL
	Fingerprint *hashes.Hash
	Charset     string
	Preference  float64

	decoder Decoder

	specOnce   *sync.Once
	spec       string
	usableOnce *sync.Once
	usable     string
}

// Option customizes URL construction.
type Option func(*URL)

// WithPreference sets the mirror preference instead of DefaultPreference.
func WithPreference(p float64) Option {
	return func(u *URL) { u.Preference = p }
}

// WithDecoder substitutes the display decoder. Mainly for tests.
func WithDecoder(d Decoder) Option {
	return func(u *URL) { u.decoder = d }
}

// New wraps uri as a canonical URL. The scheme must be http, https, ftp or
// data, failing with ErrUnsupportedURL otherwise. A fingerprint embedded in
// the fragment is extracted into Fingerprint; the fragment is then cleared
// unconditionally, hash or no hash. uri itself is not modified.
func New(uri *url.URL, urlCharset string, opts ...Option) (*URL, error) {
	if uri == nil {
		return nil, errors.Wrap(errors.ErrUnsupportedURL, "nil URL")
	}
	if !supportedSchemes[uri.Scheme] {
		return nil, errors.Wrapf(errors.ErrUnsupportedURL, "scheme %q", uri.Scheme)
	}

	u := newURL(uri, urlCharset, opts...)
	if h, ok := fragment.ExtractHash(u.uri); ok {
		u.Fingerprint = &h
	}
	u.uri.Fragment = ""
	u.uri.RawFragment = ""
	return u, nil
}

// NewTrusted wraps an internally synthesized URL, skipping scheme validation
// and fragment handling. Trusted URLs are assumed fragment-free by contract;
// this is not enforced.
func NewTrusted(uri *url.URL, urlCharset string, opts ...Option) *URL {
	return newURL(uri, urlCharset, opts...)
}

// Parse builds a canonical URL from raw text. A metalink reference embedded
// in the fragment is followed first: the target is resolved relative to the
// original in its declared charset and the result is wrapped instead. A
// fingerprint on the final URL is extracted as in New.
func Parse(raw, urlCharset string, opts ...Option) (*URL, error) {
	uri, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnsupportedURL, "parsing %q", raw)
	}

	dec := decoderFor(opts)
	if target, ok := fragment.ExtractMetalink(uri, urlCharset, dec.Decode); ok {
		uri = target
	}
	return New(uri, urlCharset, opts...)
}

func newURL(uri *url.URL, urlCharset string, opts ...Option) *URL {
	clone := *uri
	u := &URL{
		uri:        &clone,
		Charset:    urlCharset,
		Preference: DefaultPreference,
		decoder:    charset.Codec{},
		specOnce:   new(sync.Once),
		usableOnce: new(sync.Once),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func decoderFor(opts []Option) Decoder {
	probe := &URL{decoder: charset.Codec{}}
	for _, opt := range opts {
		opt(probe)
	}
	return probe.decoder
}

// URI returns a copy of the wrapped URI. The copy keeps callers from
// reintroducing a fragment behind the URL's back.
func (u *URL) URI() *url.URL {
	clone := *u.uri
	return &clone
}

// Spec returns the absolute serialized form. Memoized on first access.
func (u *URL) Spec() string {
	u.specOnce.Do(func() {
		u.spec = u.uri.String()
	})
	return u.spec
}

// Usable returns the decoded display form. Decoding is attempted in the
// URL's declared charset first, then plain percent-decoding, and finally the
// raw spec with a diagnostic; it never fails past this boundary. Memoized on
// first access.
func (u *URL) Usable() string {
	u.usableOnce.Do(func() {
		spec := u.Spec()
		if s, err := u.decoder.DecodeURI(spec, u.Charset); err == nil {
			u.usable = s
			return
		}
		if s, err := url.PathUnescape(spec); err == nil {
			u.usable = s
			return
		}
		logger.Warn("url display decoding degraded to raw spec", logger.Fields{
			"url":     spec,
			"charset": u.Charset,
		})
		u.usable = spec
	})
	return u.usable
}

// String implements fmt.Stringer as the canonical spec.
func (u *URL) String() string {
	return u.Spec()
}

// Record is the serialized form of a URL. The url field always carries an
// empty fragment.
type Record struct {
	URL        string  `json:"url"`
	Charset    string  `json:"charset"`
	Preference float64 `json:"preference"`
}

// MarshalJSON serializes the URL as its {url, charset, preference} record.
func (u *URL) MarshalJSON() ([]byte, error) {
	return json.Marshal(Record{
		URL:        u.Spec(),
		Charset:    u.Charset,
		Preference: u.Preference,
	})
}

// UnmarshalJSON reconstructs a URL from its record with full validation.
func (u *URL) UnmarshalJSON(data []byte) error {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return errors.Wrap(errors.ErrUnsupportedURL, err.Error())
	}
	parsed, err := Parse(rec.URL, rec.Charset, WithPreference(rec.Preference))
	if err != nil {
		return err
	}
	*u = *parsed
	return nil
}
