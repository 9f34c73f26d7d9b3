// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package addrhash maps raw network addresses to opaque identifiers, so that
// nothing downstream has to retain the address itself.
package addrhash

import (
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// Size is the length of a Hash in bytes.
const Size = blake2b.Size256

// abbrevLen is the number of hex characters kept by Abbrev.
const abbrevLen = 8

// Hash is the blake2b-256 digest of a raw address.
type Hash [Size]byte

var (
	_ json.Marshaler   = (*Hash)(nil)
	_ json.Unmarshaler = (*Hash)(nil)
)

// Of hashes a raw address.
func Of(rawAddress string) Hash {
	return blake2b.Sum256([]byte(rawAddress))
}

// String returns the full hex form.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Abbrev returns the leading hex characters followed by "...".
func (h Hash) Abbrev() string {
	return Abbrev(h.String())
}

// IsZero reports whether all bytes are zero.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// MarshalJSON implements json.Marshaler.
func (h *Hash) MarshalJSON() ([]byte, error) {
	if h == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(h.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// Parse decodes the hex form returned by String.
func Parse(s string) (Hash, error) {
	if len(s) != Size*2 {
		return Hash{}, errors.New("invalid length")
	}
	var h Hash
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return Hash{}, errors.Wrap(err, "decode hash")
	}
	return h, nil
}

// Abbrev truncates an identifier to its first eight characters followed by
// "...". Shorter identifiers are still suffixed so the output never equals the input.
func Abbrev(s string) string {
	if len(s) > abbrevLen {
		s = s[:abbrevLen]
	}
	return s + "..."
}
