// Package crypto implements tag-claim signing, verification and random tokens.
package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/and161185/park-keeper/internal/model"
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// RandToken returns a hex token of 2n characters, for pass auth tokens.
func RandToken(n int) (string, error) {
	b, err := RandBytes(n)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SignClaim computes the hex HMAC-SHA256 over the pipe-joined claim tuple.
// An absent stair contributes an empty segment, so the signed message is
// always garage|floor|stair|tagID.
func SignClaim(secret []byte, garage, floor, stair, tagID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(garage + "|" + floor + "|" + stair + "|" + tagID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyClaim reports whether the claim's signature is a valid MAC over its
// fields under secret. Missing required fields or malformed hex fail before
// any comparison. The comparison itself is constant time.
func VerifyClaim(secret []byte, claim model.TagClaim) bool {
	if claim.Garage == "" || claim.Floor == "" || claim.TagID == "" || claim.Signature == "" {
		return false
	}
	supplied, err := hex.DecodeString(claim.Signature)
	if err != nil {
		return false
	}
	want := SignClaim(secret, claim.Garage, claim.Floor, claim.Stair, claim.TagID)
	wantRaw, _ := hex.DecodeString(want)
	return hmac.Equal(supplied, wantRaw)
}
