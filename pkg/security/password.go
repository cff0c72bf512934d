// Package security hashes dashboard user passwords with Argon2id.
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/angelmondragon/phonedex-backend/pkg/config"
)

// ErrInvalidHash signals a malformed Argon2id hash string.
var ErrInvalidHash = errors.New("invalid argon2id hash")

// ErrIncompatibleVersion is returned for hashes produced by another Argon2 revision.
var ErrIncompatibleVersion = errors.New("incompatible argon2 version")

var b64 = base64.RawStdEncoding

// ArgonParams are the cost settings encoded into every PHC string.
type ArgonParams struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

// ParamsFromConfig bounds cfg to values argon2 accepts without exhausting the host.
func ParamsFromConfig(cfg config.PasswordConfig) ArgonParams {
	return ArgonParams{
		Memory:      bounded(cfg.ArgonMemoryKB, 8, 512*1024),
		Time:        bounded(cfg.ArgonTime, 1, 10),
		Parallelism: uint8(bounded(cfg.ArgonParallelism, 1, 255)),
		SaltLen:     bounded(cfg.ArgonSaltLen, 8, 64),
		KeyLen:      bounded(cfg.ArgonKeyLen, 16, 64),
	}
}

func (p ArgonParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
}

// Hasher implements the users service password contract.
type Hasher struct {
	params ArgonParams
}

// NewHasher returns a Hasher using cfg.
func NewHasher(cfg config.PasswordConfig) *Hasher {
	return &Hasher{params: ParamsFromConfig(cfg)}
}

func (h *Hasher) Hash(password string) (string, error) {
	return encode(password, h.params)
}

func (h *Hasher) Verify(password, encoded string) (bool, error) {
	return VerifyPassword(password, encoded)
}

// HashPassword returns the PHC-formatted Argon2id hash of password.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	return encode(password, ParamsFromConfig(cfg))
}

// VerifyPassword compares password against an encoded hash in constant time.
func VerifyPassword(password, encoded string) (bool, error) {
	params, salt, key, err := decode(encoded)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(key, params.derive(password, salt)) == 1, nil
}

func encode(password string, params ArgonParams) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := params.derive(password, salt)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, params.Memory, params.Time, params.Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// decode parses $argon2id$v=19$m=..,t=..,p=..$salt$key.
func decode(encoded string) (ArgonParams, []byte, []byte, error) {
	var params ArgonParams
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return params, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return params, nil, nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return params, nil, nil, ErrIncompatibleVersion
	}
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Parallelism); err != nil {
		return params, nil, nil, ErrInvalidHash
	}
	if params.Time == 0 || params.Parallelism == 0 {
		return params, nil, nil, ErrInvalidHash
	}

	salt, err := b64.DecodeString(fields[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(fields[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, ErrInvalidHash
	}
	params.SaltLen = uint32(len(salt))
	params.KeyLen = uint32(len(key))
	return params, salt, key, nil
}

func bounded(v, lo, hi int) uint32 {
	return uint32(min(max(v, lo), hi))
}
