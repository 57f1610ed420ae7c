package model

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
)

// PassSerial identifies an Apple pass: the session ID joined with the garage
// id by a dash. The garage id may itself contain dashes, so parsing splits at
// the fixed-width UUID prefix rather than at the last separator.
type PassSerial struct {
	SessionID uuid.UUID
	Garage    string
}

const uuidLen = 36

// Serial for a (session, garage) pair, e.g.
// "8c2f0b4e-...-9d1a-G1" for garage "G1".
func Serial(sessionID uuid.UUID, garage string) string {
	return sessionID.String() + "-" + garage
}

// String renders the serial in wire form.
func (p PassSerial) String() string { return Serial(p.SessionID, p.Garage) }

// ParseSerial decodes a pass serial back into its (session, garage) pair.
// Serials arrive from an external platform, so failures are expected input,
// not programming errors.
func ParseSerial(s string) (PassSerial, error) {
	if len(s) < uuidLen+2 || s[uuidLen] != '-' {
		return PassSerial{}, fmt.Errorf("serial %q: bad shape", s)
	}
	id, err := uuid.FromString(s[:uuidLen])
	if err != nil {
		return PassSerial{}, fmt.Errorf("serial %q: %w", s, err)
	}
	garage := s[uuidLen+1:]
	if garage == "" {
		return PassSerial{}, fmt.Errorf("serial %q: empty garage", s)
	}
	return PassSerial{SessionID: id, Garage: garage}, nil
}
