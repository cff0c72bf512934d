package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/angelmondragon/phonedex-backend/pkg/config"
	"github.com/angelmondragon/phonedex-backend/pkg/security"
)

var fastParams = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("very-secure-password", fastParams)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil || !ok {
		t.Fatalf("VerifyPassword(correct) = %v, %v", ok, err)
	}
	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil || ok {
		t.Fatalf("VerifyPassword(wrong) = %v, %v", ok, err)
	}
}

func TestHashesAreSalted(t *testing.T) {
	a, _ := security.HashPassword("same", fastParams)
	b, _ := security.HashPassword("same", fastParams)
	if a == b {
		t.Fatal("two hashes of the same password should differ")
	}
}

func TestVerifyPasswordRejectsMalformed(t *testing.T) {
	for _, encoded := range []string{
		"not-a-hash",
		"$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=8192,t=0,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=8192,t=1,p=1$!!$a2V5",
	} {
		if _, err := security.VerifyPassword("irrelevant", encoded); !errors.Is(err, security.ErrInvalidHash) {
			t.Fatalf("VerifyPassword(%q) err = %v, want ErrInvalidHash", encoded, err)
		}
	}
}

func TestVerifyPasswordRejectsOtherVersion(t *testing.T) {
	_, err := security.VerifyPassword("x", "$argon2id$v=16$m=8192,t=1,p=1$c2FsdA$a2V5")
	if !errors.Is(err, security.ErrIncompatibleVersion) {
		t.Fatalf("err = %v, want ErrIncompatibleVersion", err)
	}
}

func TestParamsFromConfigClamps(t *testing.T) {
	p := security.ParamsFromConfig(config.PasswordConfig{ArgonMemoryKB: 1, ArgonTime: 99, ArgonParallelism: 0, ArgonSaltLen: 4, ArgonKeyLen: 1024})
	if p.Memory != 8 || p.Time != 10 || p.Parallelism != 1 || p.SaltLen != 8 || p.KeyLen != 64 {
		t.Fatalf("unexpected params: %+v", p)
	}
}

func TestHasherRoundTrip(t *testing.T) {
	hasher := security.NewHasher(fastParams)

	hash, err := hasher.Hash("dashboard-secret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected hash prefix: %s", hash)
	}
	ok, err := hasher.Verify("dashboard-secret", hash)
	if err != nil || !ok {
		t.Fatalf("Verify failed: ok=%v err=%v", ok, err)
	}
	if _, err := hasher.Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}
