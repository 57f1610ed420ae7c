// Package service contains application services for claim verification,
// location tracking and wallet pass synchronization.
package service

import (
	pkgcrypto "github.com/and161185/park-keeper/internal/crypto"
	"github.com/and161185/park-keeper/internal/model"
)

// ClaimService validates inbound tag claims.
type ClaimService interface {
	// Verify reports whether the claim is authentic. It never errors:
	// malformed input is simply an invalid claim.
	Verify(claim model.TagClaim) bool
}

type ClaimServiceImpl struct {
	secret []byte
}

// NewClaimService constructs ClaimService around the process-wide tag secret.
func NewClaimService(secret []byte) *ClaimServiceImpl {
	return &ClaimServiceImpl{secret: secret}
}

// Verify checks required fields and the HMAC signature in constant time.
func (s *ClaimServiceImpl) Verify(claim model.TagClaim) bool {
	return pkgcrypto.VerifyClaim(s.secret, claim)
}
