package partnership

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

////////////////////////////////////////////////////////////////////////////////

// PasswordScheme is password hashing scheme enumeration.
type PasswordScheme int16

const (
	// PasswordSchemeUnknown means the hash is malformed or its scheme is not
	// supported, such hash never verifies.
	PasswordSchemeUnknown PasswordScheme = iota
	// PasswordSchemePBKDF2 is "salt$hex(PBKDF2-HMAC-SHA256)".
	PasswordSchemePBKDF2
	// PasswordSchemeBcrypt is the standard adaptive hash with embedded salt
	// and cost.
	PasswordSchemeBcrypt
)

const (
	pbkdf2Iterations = 100000
	pbkdf2KeyLength  = sha256.Size
	pbkdf2SaltLength = 16
)

// String converts password scheme to string.
func (scheme PasswordScheme) String() string {
	switch scheme {
	case PasswordSchemePBKDF2:
		return "pbkdf2-sha256"
	case PasswordSchemeBcrypt:
		return "bcrypt"
	default:
		return "unknown"
	}
}

////////////////////////////////////////////////////////////////////////////////

// PasswordHash is a stored password hash tagged by its scheme.
type PasswordHash struct {
	Scheme PasswordScheme
	Data   string
}

// ParsePasswordHash detects the scheme of a stored hash string.
func ParsePasswordHash(source string) PasswordHash {
	result := PasswordHash{Data: source}
	switch {
	case isBcryptHash(source):
		result.Scheme = PasswordSchemeBcrypt
	case isPBKDF2Hash(source):
		result.Scheme = PasswordSchemePBKDF2
	}
	return result
}

// HashPassword hashes password with the canonical scheme (bcrypt).
func HashPassword(password string) (PasswordHash, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return PasswordHash{}, fmt.Errorf(`failed to hash password: "%w"`, err)
	}
	return PasswordHash{Scheme: PasswordSchemeBcrypt, Data: string(hash)}, nil
}

// HashPasswordPBKDF2 hashes password with the salted PBKDF2 scheme. Kept for
// compatibility with stored partner hashes.
func HashPasswordPBKDF2(password string) (PasswordHash, error) {
	salt := make([]byte, pbkdf2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return PasswordHash{}, fmt.Errorf(`failed to generate salt: "%w"`, err)
	}
	return PasswordHash{
			Scheme: PasswordSchemePBKDF2,
			Data:   hashPBKDF2(password, hex.EncodeToString(salt))},
		nil
}

// Verify checks password against the hash. It never fails, malformed hashes
// just do not match.
func (hash PasswordHash) Verify(password string) bool {
	switch hash.Scheme {
	case PasswordSchemeBcrypt:
		return bcrypt.CompareHashAndPassword(
			[]byte(hash.Data), []byte(password)) == nil
	case PasswordSchemePBKDF2:
		salt, _, found := strings.Cut(hash.Data, "$")
		if !found || salt == "" {
			return false
		}
		return subtle.ConstantTimeCompare(
			[]byte(hashPBKDF2(password, salt)), []byte(hash.Data)) == 1
	default:
		return false
	}
}

// VerifyPassword parses the stored hash and checks password against it.
func VerifyPassword(password, hash string) bool {
	return ParsePasswordHash(hash).Verify(password)
}

func (hash PasswordHash) String() string { return hash.Data }

////////////////////////////////////////////////////////////////////////////////

// The salt is used as its hex text, not as decoded bytes.
func hashPBKDF2(password, salt string) string {
	key := pbkdf2.Key(
		[]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLength,
		sha256.New)
	return salt + "$" + hex.EncodeToString(key)
}

func isBcryptHash(source string) bool {
	if len(source) < 7 || source[0] != '$' || source[3] != '$' {
		return false
	}
	switch source[1:3] {
	case "2a", "2b", "2y":
	default:
		return false
	}
	_, err := bcrypt.Cost([]byte(source))
	return err == nil
}

func isPBKDF2Hash(source string) bool {
	salt, key, found := strings.Cut(source, "$")
	if !found || salt == "" || len(key) != hex.EncodedLen(pbkdf2KeyLength) {
		return false
	}
	_, err := hex.DecodeString(key)
	return err == nil
}
