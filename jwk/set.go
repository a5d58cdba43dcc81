package jwk

import (
	"bytes"
	"encoding/json"

	"github.com/effective-security/xlog"
)

// Set is a static set of keys
type Set struct {
	Keys []*Key `json:"keys"`
}

// ParseSet returns a key set decoded from JSON.
// A single JWK is accepted as well, and returned as a set with one key.
func ParseSet(raw []byte) (*Set, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(raw), &probe); err != nil {
		return nil, MalformedError(err, "unable to parse JWK")
	}

	keys, ok := probe["keys"]
	if !ok {
		k, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		return &Set{Keys: []*Key{k}}, nil
	}

	s := new(Set)
	if err := json.Unmarshal(keys, &s.Keys); err != nil {
		return nil, MalformedError(err, "unable to parse JWK set")
	}
	if len(s.Keys) == 0 {
		return nil, UnsupportedError("JWK set has no keys")
	}
	for i, k := range s.Keys {
		if k == nil || k.KeyType == "" {
			return nil, UnsupportedError("field `kty` is absent from JWK at index %d", i)
		}
	}

	logger.KV(xlog.DEBUG, "reason", "parse_set", "keys", len(s.Keys))
	return s, nil
}

// Find returns the key for the given key ID.
// The key ID is matched against `kid` of the keys, then against their
// SHA-256 thumbprints. A set with a single key always returns that key.
func (s *Set) Find(keyID string) (*Key, error) {
	if keyID != "" {
		for _, k := range s.Keys {
			if k.KeyID == keyID {
				return k, nil
			}
		}
		for _, k := range s.Keys {
			if tb, err := SHA256Thumbprint(k); err == nil && tb == keyID {
				return k, nil
			}
		}
	}
	if len(s.Keys) == 1 {
		return s.Keys[0], nil
	}
	if keyID == "" {
		return nil, &KeyError{
			Kind:    KeyNotFound,
			Message: "token has no `kid` header to select a key from the set",
		}
	}
	return nil, &KeyError{
		Kind:    KeyNotFound,
		Message: "key not found: " + keyID,
	}
}
