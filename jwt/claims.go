package jwt

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

// Registered time claims
const (
	ClaimExpiration = "exp"
	ClaimIssuedAt   = "iat"
	ClaimNotBefore  = "nbf"
)

// Claims are the decoded token claims.
// The time claims are extracted from the JSON object, all other claims
// are kept in Custom.
type Claims struct {
	Expiration *time.Time
	IssuedAt   *time.Time
	NotBefore  *time.Time
	// Custom is the claims object without the time claims
	Custom map[string]any
}

// decodeClaims returns claims decoded from the JSON object.
// Numbers in Custom are kept as json.Number.
func decodeClaims(raw []byte) (*Claims, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.WithStack(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after claims")
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.Errorf("expected a JSON object, got %s", jsonType(v))
	}

	c := &Claims{Custom: m}
	times := []struct {
		name string
		dst  **time.Time
	}{
		{ClaimExpiration, &c.Expiration},
		{ClaimIssuedAt, &c.IssuedAt},
		{ClaimNotBefore, &c.NotBefore},
	}
	for _, tc := range times {
		val, ok := m[tc.name]
		if !ok {
			continue
		}
		delete(m, tc.name)
		t, err := numericDate(tc.name, val)
		if err != nil {
			return nil, err
		}
		*tc.dst = t
	}
	return c, nil
}

// NumericDate range, from -262144-01-01T00:00:00Z to +262143-12-31T23:59:59Z
const (
	minNumericDate = -8334632937600
	maxNumericDate = 8210298412799
)

// numericDate returns time for NumericDate value, RFC 7519 Section 2
func numericDate(name string, val any) (*time.Time, error) {
	if val == nil {
		return nil, nil
	}
	n, ok := val.(json.Number)
	if !ok {
		return nil, errors.Errorf("`%s` must be a number, got %s", name, jsonType(val))
	}

	invalid := errors.Errorf("`%s` is not a valid timestamp: %s", name, n.String())

	var t time.Time
	if i, err := n.Int64(); err == nil {
		if i < minNumericDate || i > maxNumericDate {
			return nil, invalid
		}
		t = time.Unix(i, 0)
	} else {
		f, err := n.Float64()
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) ||
			f < minNumericDate || f >= maxNumericDate+1 {
			return nil, invalid
		}
		sec, frac := math.Modf(f)
		t = time.Unix(int64(sec), int64(frac*1e9))
	}
	t = t.UTC()
	return &t, nil
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return "unknown"
}

// Names returns sorted names of the custom claims, followed by the time
// claims present in the token
func (c *Claims) Names() []string {
	names := make([]string, 0, len(c.Custom)+3)
	for k := range c.Custom {
		names = append(names, k)
	}
	sort.Strings(names)

	if c.Expiration != nil {
		names = append(names, ClaimExpiration)
	}
	if c.IssuedAt != nil {
		names = append(names, ClaimIssuedAt)
	}
	if c.NotBefore != nil {
		names = append(names, ClaimNotBefore)
	}
	return names
}

// Len returns the number of claims
func (c *Claims) Len() int {
	return len(c.Names())
}

// Get returns the claim value.
// The time claims are returned as time.Time.
func (c *Claims) Get(name string) (any, bool) {
	var t *time.Time
	switch name {
	case ClaimExpiration:
		t = c.Expiration
	case ClaimIssuedAt:
		t = c.IssuedAt
	case ClaimNotBefore:
		t = c.NotBefore
	default:
		v, ok := c.Custom[name]
		return v, ok
	}
	if t == nil {
		return nil, false
	}
	return *t, true
}

// String will return the named claim as a string,
// if the underlying type is not a string,
// it will try and co-oerce it to a string.
// The time claims are formatted as RFC 3339.
func (c *Claims) String(name string) string {
	v, ok := c.Get(name)
	if !ok || v == nil {
		return ""
	}
	switch tv := v.(type) {
	case string:
		return tv
	case json.Number:
		return tv.String()
	case time.Time:
		return tv.Format(time.RFC3339)
	default:
		return xlog.EscapedString(v)
	}
}

// All returns the claims as a JSON object, with the time claims
// encoded as NumericDate
func (c *Claims) All() map[string]any {
	m := make(map[string]any, len(c.Custom)+3)
	for k, v := range c.Custom {
		m[k] = v
	}
	if c.Expiration != nil {
		m[ClaimExpiration] = unixNumber(*c.Expiration)
	}
	if c.IssuedAt != nil {
		m[ClaimIssuedAt] = unixNumber(*c.IssuedAt)
	}
	if c.NotBefore != nil {
		m[ClaimNotBefore] = unixNumber(*c.NotBefore)
	}
	return m
}

func unixNumber(t time.Time) json.Number {
	if t.Nanosecond() == 0 {
		return json.Number(strconv.FormatInt(t.Unix(), 10))
	}
	return json.Number(strconv.FormatFloat(float64(t.UnixNano())/1e9, 'f', -1, 64))
}

// MarshalJSON implements json.Marshaler
func (c *Claims) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.All())
}

// Marshal returns JSON encoded string
func (c *Claims) Marshal() string {
	raw, _ := json.Marshal(c.All())
	return string(raw)
}
