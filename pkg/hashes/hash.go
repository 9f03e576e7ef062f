package hashes

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cperrin88/linkhash/pkg/errors"
)

// Hash is one validated (algorithm, digest) pair. The digest is stored as
// lowercase hex of exactly the algorithm's fixed length. The zero value is
// not a valid hash; construct through New, Parse or UnmarshalJSON. Hash is
// comparable, so equality is plain ==.
type Hash struct {
	Algorithm Algorithm
	Sum       string
}

// New validates an untrusted (digest, type label) pair and returns the hash.
// The label is resolved through the algorithm registry; the digest is
// lowercased and stripped of internal whitespace before length and hex
// checks. Construction fails rather than producing a partially valid hash.
func New(sum, typ string) (Hash, error) {
	alg, err := Resolve(typ)
	if err != nil {
		return Hash{}, fmt.Errorf("%w: %w", errors.ErrInvalidHash, err)
	}

	sum = normalizeSum(sum)
	if len(sum) != alg.HexLength {
		return Hash{}, errors.Wrapf(errors.ErrInvalidHash,
			"%s digest must be %d hex characters, got %d", alg.Name, alg.HexLength, len(sum))
	}
	if !isHex(sum) {
		return Hash{}, errors.Wrapf(errors.ErrInvalidHash,
			"%s digest contains non-hex characters", alg.Name)
	}

	return Hash{Algorithm: alg, Sum: sum}, nil
}

// Parse splits an "<algorithm>:<hex>" token and validates it, e.g.
// "sha256:9f86d0..." as found in descriptor files and CLI arguments.
func Parse(token string) (Hash, error) {
	typ, sum, ok := strings.Cut(token, ":")
	if !ok {
		return Hash{}, errors.Wrapf(errors.ErrInvalidHash, "expected <algorithm>:<hex>, got %q", token)
	}
	return New(sum, typ)
}

// Valid reports whether h was produced by a constructor: a known algorithm
// and a digest of the right length. The zero value is invalid.
func (h Hash) Valid() bool {
	return h.Algorithm.HexLength > 0 &&
		len(h.Sum) == h.Algorithm.HexLength &&
		isHex(h.Sum)
}

// Preference returns the digest negotiation weight of the hash's algorithm.
func (h Hash) Preference() float64 {
	return h.Algorithm.Weight
}

// String renders the hash as "<ALGORITHM>:<hex>".
func (h Hash) String() string {
	return h.Algorithm.Name + ":" + h.Sum
}

type hashRecord struct {
	Type string `json:"type"`
	Sum  string `json:"sum"`
}

// MarshalJSON serializes the hash as its {type, sum} record.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(hashRecord{Type: h.Algorithm.Name, Sum: h.Sum})
}

// UnmarshalJSON reconstructs a hash from a {type, sum} record, applying the
// same validation as New. A malformed record fails the whole decode.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var rec hashRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return errors.Wrap(errors.ErrInvalidHash, err.Error())
	}
	parsed, err := New(rec.Sum, rec.Type)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

func normalizeSum(sum string) string {
	sum = strings.ToLower(sum)
	return strings.Join(strings.Fields(sum), "")
}

func isHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
