package auth

import "testing"

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct digests for the same plaintext")
	}
	if first == "hunter2!" {
		t.Fatal("expected digest to differ from plaintext")
	}
}

func TestVerifyPassword(t *testing.T) {
	digest, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !VerifyPassword("correct horse", digest) {
		t.Fatal("expected matching plaintext to verify")
	}
	if VerifyPassword("wrong horse", digest) {
		t.Fatal("expected mismatched plaintext to fail")
	}
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	if VerifyPassword("anything", "not-a-bcrypt-digest") {
		t.Fatal("expected malformed digest to report mismatch")
	}
	if VerifyPassword("anything", "") {
		t.Fatal("expected empty digest to report mismatch")
	}
}

func TestDummyDigestIsValidBcrypt(t *testing.T) {
	if VerifyPassword("", dummyDigest) {
		t.Fatal("expected dummy digest to match no plaintext used in practice")
	}
}
