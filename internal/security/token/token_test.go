package token

import (
	"errors"
	"testing"
)

func TestHashSHA256Hex(t *testing.T) {
	got := HashSHA256Hex("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Fatalf("HashSHA256Hex=%q want=%q", got, want)
	}
}

func TestHashRefreshTokenHex_HMACWhenKeySet(t *testing.T) {
	t.Setenv(HMACEnvKey, "")
	plain := HashRefreshTokenHex("some-token")
	if plain != HashSHA256Hex("some-token") {
		t.Fatalf("expected SHA-256 fallback without key")
	}

	t.Setenv(HMACEnvKey, "0123456789abcdef0123456789abcdef")
	keyed := HashRefreshTokenHex("some-token")
	if keyed == plain {
		t.Fatalf("expected HMAC digest to differ from plain SHA-256")
	}
	if len(keyed) != 64 {
		t.Fatalf("digest length=%d want=64", len(keyed))
	}
}

func TestHMACKeyFromEnv(t *testing.T) {
	t.Setenv(HMACEnvKey, "")
	if _, err := HMACKeyFromEnv(32); !errors.Is(err, ErrHMACKeyMissing) {
		t.Fatalf("got %v, want ErrHMACKeyMissing", err)
	}

	t.Setenv(HMACEnvKey, "short")
	if _, err := HMACKeyFromEnv(32); !errors.Is(err, ErrHMACKeyTooShort) {
		t.Fatalf("got %v, want ErrHMACKeyTooShort", err)
	}

	t.Setenv(HMACEnvKey, "0123456789abcdef0123456789abcdef")
	key, err := HMACKeyFromEnv(32)
	if err != nil || len(key) != 32 {
		t.Fatalf("key=%d bytes err=%v", len(key), err)
	}
}
