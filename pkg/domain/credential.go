package domain

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"

	dErrors "enrolld/pkg/domain-errors"
)

// CredentialToken is the opaque comparable value enrolled for a subject and
// presented again at verification time. The registry never interprets it;
// matching is exact equality, nothing fuzzy. How the token is derived is the
// capture collaborator's decision - the two supported derivations below cover
// the reference deployments (a canonical stored path vs. a content hash).
type CredentialToken string

// MaxCredentialTokenLength bounds tokens at trust boundaries.
const MaxCredentialTokenLength = 512

// TokenFromString canonicalizes an externally supplied reference (for example
// a stored capture path) into a CredentialToken.
func TokenFromString(s string) (CredentialToken, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "credential token cannot be empty")
	}
	if len(s) > MaxCredentialTokenLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "credential token too long")
	}
	return CredentialToken(s), nil
}

// TokenFromBytes derives a content-hash token from raw capture bytes.
// Two captures with identical bytes produce identical tokens; anything else
// mismatches, which is exactly the registry's equality contract.
func TokenFromBytes(b []byte) (CredentialToken, error) {
	if len(b) == 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "credential payload cannot be empty")
	}
	sum := blake2b.Sum256(b)
	return CredentialToken(hex.EncodeToString(sum[:])), nil
}

// Equal reports whether two tokens match. Comparison is constant-time so the
// verification path does not leak prefix information about stored tokens.
func (t CredentialToken) Equal(other CredentialToken) bool {
	return subtle.ConstantTimeCompare([]byte(t), []byte(other)) == 1
}

func (t CredentialToken) IsEmpty() bool { return t == "" }

// String returns a redacted form for logs. Raw tokens never leave the core.
func (t CredentialToken) String() string {
	if len(t) <= 8 {
		return "[redacted]"
	}
	return string(t[:4]) + "..." + string(t[len(t)-4:])
}
