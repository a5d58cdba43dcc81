package jwt

import (
	"crypto"
	"fmt"

	jwtgo "github.com/golang-jwt/jwt/v5"
)

// Family is the algorithm family of a verification key
type Family int

// Algorithm families
const (
	FamilySymmetric Family = iota + 1
	FamilyRSA
	FamilyEd25519
	FamilyK256
)

// String returns the family name
func (f Family) String() string {
	switch f {
	case FamilySymmetric:
		return "symmetric"
	case FamilyRSA:
		return "RSA"
	case FamilyEd25519:
		return "Ed25519"
	case FamilyK256:
		return "secp256k1"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// Expected returns the label of the algorithms accepted by the family,
// as reported in AlgorithmMismatch errors
func (f Family) Expected() string {
	switch f {
	case FamilySymmetric:
		return "HS256, HS384 or HS512"
	case FamilyRSA:
		return "RS* or PS* algorithm"
	case FamilyEd25519:
		return "EdDSA"
	case FamilyK256:
		return "ES256K"
	}
	return f.String()
}

// Algorithm describes a supported signature algorithm
type Algorithm struct {
	Name   string
	Family Family
	Hash   crypto.Hash
	// SignatureSize is the expected size of the signature in bytes,
	// zero if the size depends on the key
	SignatureSize int

	method jwtgo.SigningMethod
}

var algorithms = map[string]Algorithm{
	"HS256":  {Name: "HS256", Family: FamilySymmetric, Hash: crypto.SHA256, SignatureSize: 32, method: jwtgo.SigningMethodHS256},
	"HS384":  {Name: "HS384", Family: FamilySymmetric, Hash: crypto.SHA384, SignatureSize: 48, method: jwtgo.SigningMethodHS384},
	"HS512":  {Name: "HS512", Family: FamilySymmetric, Hash: crypto.SHA512, SignatureSize: 64, method: jwtgo.SigningMethodHS512},
	"RS256":  {Name: "RS256", Family: FamilyRSA, Hash: crypto.SHA256, method: jwtgo.SigningMethodRS256},
	"RS384":  {Name: "RS384", Family: FamilyRSA, Hash: crypto.SHA384, method: jwtgo.SigningMethodRS384},
	"RS512":  {Name: "RS512", Family: FamilyRSA, Hash: crypto.SHA512, method: jwtgo.SigningMethodRS512},
	"PS256":  {Name: "PS256", Family: FamilyRSA, Hash: crypto.SHA256, method: jwtgo.SigningMethodPS256},
	"PS384":  {Name: "PS384", Family: FamilyRSA, Hash: crypto.SHA384, method: jwtgo.SigningMethodPS384},
	"PS512":  {Name: "PS512", Family: FamilyRSA, Hash: crypto.SHA512, method: jwtgo.SigningMethodPS512},
	"EdDSA":  {Name: "EdDSA", Family: FamilyEd25519, SignatureSize: 64, method: jwtgo.SigningMethodEdDSA},
	"ES256K": {Name: "ES256K", Family: FamilyK256, Hash: crypto.SHA256, SignatureSize: 64},
}

// LookupAlgorithm returns the supported algorithm by its `alg` name.
// Names are case sensitive.
func LookupAlgorithm(name string) (Algorithm, bool) {
	a, ok := algorithms[name]
	return a, ok
}

// Algorithms returns the names of the algorithms supported by the family
func Algorithms(f Family) []string {
	var names []string
	for _, name := range []string{"HS256", "HS384", "HS512", "RS256", "RS384", "RS512", "PS256", "PS384", "PS512", "EdDSA", "ES256K"} {
		if algorithms[name].Family == f {
			names = append(names, name)
		}
	}
	return names
}
