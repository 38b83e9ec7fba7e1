package application

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"

	"github.com/example/booking-core/internal/persistence"
)

// DigestParams tunes the argon2id key derivation that turns a password into
// the fixed width digest the general store holds.
type DigestParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
}

// DefaultDigestParams are suitable for interactive logins.
var DefaultDigestParams = DigestParams{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
}

// CredentialDigest derives the stored password digest for a username. The
// username is the salt, so equal passwords under different usernames produce
// different digests while the output width stays exactly
// persistence.DigestLength bytes.
func CredentialDigest(username, password string, params DigestParams) []byte {
	return argon2.IDKey([]byte(password), []byte(username), params.Iterations, params.Memory, params.Parallelism, persistence.DigestLength)
}

// VerifyDigest reports whether the password matches a stored digest. A nil
// stored digest (unknown username) is compared against a zero digest so the
// call has the same shape whether or not the user exists.
func VerifyDigest(stored []byte, username, password string, params DigestParams) bool {
	if stored == nil {
		stored = make([]byte, persistence.DigestLength)
	}
	candidate := CredentialDigest(username, password, params)
	return subtle.ConstantTimeCompare(stored, candidate) == 1
}
