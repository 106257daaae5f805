package password

import (
	"strings"
	"testing"
)

func TestHashVerify_RoundTrip(t *testing.T) {
	for _, plain := range []string{"secret1", "p@ssw0rd with spaces", "ñandú"} {
		h, err := Hash(plain)
		if err != nil {
			t.Fatalf("hash %q: %v", plain, err)
		}
		if h == plain {
			t.Fatalf("hash equals plaintext for %q", plain)
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("not a bcrypt string: %q", h)
		}
		if !Verify(plain, h) {
			t.Fatalf("verify failed for %q", plain)
		}
		if Verify(plain+"x", h) {
			t.Fatalf("verify accepted wrong password for %q", plain)
		}
	}
}

func TestHash_Salted(t *testing.T) {
	a, err := Hash("same")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Hash("same")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two hashes of the same password should differ (random salt)")
	}
}

func TestHash_Empty(t *testing.T) {
	if _, err := Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
	if Verify("", "") {
		t.Fatal("empty verify should fail")
	}
}
