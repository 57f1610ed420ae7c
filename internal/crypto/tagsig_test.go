package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/and161185/park-keeper/internal/model"
)

var secret = []byte("test-secret")

func validClaim() model.TagClaim {
	c := model.TagClaim{Garage: "G1", Floor: "4", Stair: "A", TagID: "T1"}
	c.Signature = SignClaim(secret, c.Garage, c.Floor, c.Stair, c.TagID)
	return c
}

func TestRandBytes_LengthAndUniqueness(t *testing.T) {
	t.Parallel()

	const n = 64
	a, err := RandBytes(n)
	if err != nil {
		t.Fatalf("RandBytes: %v", err)
	}
	if len(a) != n {
		t.Fatalf("len=%d, want=%d", len(a), n)
	}
	b, err := RandBytes(n)
	if err != nil {
		t.Fatalf("RandBytes(2): %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("two subsequent RandBytes(%d) are equal", n)
	}
}

func TestRandToken_HexShape(t *testing.T) {
	t.Parallel()

	tok, err := RandToken(24)
	if err != nil {
		t.Fatalf("RandToken: %v", err)
	}
	if len(tok) != 48 {
		t.Fatalf("len=%d, want 48", len(tok))
	}
	if _, err := hex.DecodeString(tok); err != nil {
		t.Fatalf("token not hex: %v", err)
	}
}

func TestVerifyClaim_Valid(t *testing.T) {
	t.Parallel()

	if !VerifyClaim(secret, validClaim()) {
		t.Fatalf("valid claim rejected")
	}

	// Stair is optional; its segment is empty when absent.
	c := model.TagClaim{Garage: "G1", Floor: "2", TagID: "T9"}
	c.Signature = SignClaim(secret, c.Garage, c.Floor, "", c.TagID)
	if !VerifyClaim(secret, c) {
		t.Fatalf("stairless claim rejected")
	}
}

func TestVerifyClaim_FlippedByte(t *testing.T) {
	t.Parallel()

	c := validClaim()
	raw, _ := hex.DecodeString(c.Signature)
	for i := range raw {
		mut := append([]byte(nil), raw...)
		mut[i] ^= 0x01
		c.Signature = hex.EncodeToString(mut)
		if VerifyClaim(secret, c) {
			t.Fatalf("accepted signature with byte %d flipped", i)
		}
	}
}

func TestVerifyClaim_MissingFields(t *testing.T) {
	t.Parallel()

	base := validClaim()
	cases := map[string]model.TagClaim{
		"garage":    {Floor: base.Floor, Stair: base.Stair, TagID: base.TagID, Signature: base.Signature},
		"floor":     {Garage: base.Garage, Stair: base.Stair, TagID: base.TagID, Signature: base.Signature},
		"tag":       {Garage: base.Garage, Floor: base.Floor, Stair: base.Stair, Signature: base.Signature},
		"signature": {Garage: base.Garage, Floor: base.Floor, Stair: base.Stair, TagID: base.TagID},
	}
	for name, c := range cases {
		if VerifyClaim(secret, c) {
			t.Fatalf("claim without %s accepted", name)
		}
	}
}

func TestVerifyClaim_WrongSecretOrGarbage(t *testing.T) {
	t.Parallel()

	c := validClaim()
	if VerifyClaim([]byte("other-secret"), c) {
		t.Fatalf("claim accepted under wrong secret")
	}

	c.Signature = "not hex at all"
	if VerifyClaim(secret, c) {
		t.Fatalf("non-hex signature accepted")
	}
}
