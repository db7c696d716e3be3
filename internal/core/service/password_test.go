package service

import "testing"

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(4)

	digest, err := h.Hash("pw123456")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if digest == "pw123456" {
		t.Fatalf("digest equals plaintext")
	}

	if !h.Verify("pw123456", digest) {
		t.Fatalf("correct password did not verify")
	}
	if h.Verify("pw1234567", digest) {
		t.Fatalf("different password verified")
	}
}

func TestPasswordHasher_MalformedDigest(t *testing.T) {
	h := NewPasswordHasher(4)

	if h.Verify("anything", "not-a-bcrypt-digest") {
		t.Fatalf("malformed digest verified")
	}
	if h.Verify("anything", "") {
		t.Fatalf("empty digest verified")
	}
}

func TestPasswordHasher_CostClamped(t *testing.T) {
	h := NewPasswordHasher(99)

	digest, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("hash with clamped cost failed: %v", err)
	}
	if !h.Verify("pw", digest) {
		t.Fatalf("round trip failed after cost clamp")
	}
}
