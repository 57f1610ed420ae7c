package wallet

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ApplePassMediaType is the content type Wallet expects for .pkpass binaries.
const ApplePassMediaType = "application/vnd.apple.pkpass"

// Signer produces the PKCS#7 detached signature over a pass manifest.
// Deployments plug a certificate-backed signer; nil leaves the archive
// unsigned, which Wallet accepts only in development contexts.
type Signer func(manifest []byte) ([]byte, error)

// Apple builds .pkpass archives. A pkpass is a zip containing pass.json, a
// manifest of SHA-1 digests and the manifest signature.
type Apple struct {
	TeamID        string
	PassTypeID    string
	WebServiceURL string
	Organization  string
	Signer        Signer
}

// Create issues a new pass; the serial is the object ID on this platform.
func (a *Apple) Create(_ context.Context, info PassInfo) (Created, error) {
	pass, err := a.build(info)
	if err != nil {
		return Created{}, err
	}
	return Created{ObjectID: info.Serial, Pass: pass, MediaType: ApplePassMediaType}, nil
}

// Patch is a no-op: Wallet pulls fresh content through Fetch after a change
// notification, the server never pushes content into an issued pass.
func (a *Apple) Patch(context.Context, string, PassInfo) error { return nil }

// Fetch rebuilds the pass from the supplied content. Byte identity across
// calls is not guaranteed and not required; only the fields matter.
func (a *Apple) Fetch(_ context.Context, info PassInfo) ([]byte, string, error) {
	pass, err := a.build(info)
	return pass, ApplePassMediaType, err
}

func (a *Apple) build(info PassInfo) ([]byte, error) {
	passJSON, err := json.Marshal(a.passFields(info))
	if err != nil {
		return nil, fmt.Errorf("marshal pass.json: %w", err)
	}

	digest := sha1.Sum(passJSON)
	manifest, err := json.Marshal(map[string]string{
		"pass.json": hex.EncodeToString(digest[:]),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{"pass.json", passJSON},
		{"manifest.json", manifest},
	}
	if a.Signer != nil {
		sig, err := a.Signer(manifest)
		if err != nil {
			return nil, fmt.Errorf("sign manifest: %w", err)
		}
		files = append(files, struct {
			name string
			data []byte
		}{"signature", sig})
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(f.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *Apple) passFields(info PassInfo) map[string]any {
	org := a.Organization
	if org == "" {
		org = "Parking Helper"
	}

	floor := info.Floor
	stair := info.Stair
	description := "Parking location"
	if !info.Located {
		// No spot recorded yet: say so instead of fabricating a location.
		floor = "Unknown"
		stair = ""
		description = "Parking location unknown"
	}

	secondary := []map[string]any{
		{"key": "stair", "label": "Stair/Elevator", "value": stair},
		{"key": "garage", "label": "Garage", "value": info.Garage},
	}

	return map[string]any{
		"formatVersion":       1,
		"passTypeIdentifier":  a.PassTypeID,
		"teamIdentifier":      a.TeamID,
		"serialNumber":        info.Serial,
		"webServiceURL":       a.WebServiceURL,
		"authenticationToken": info.AuthToken,
		"organizationName":    org,
		"description":         description,
		"generic": map[string]any{
			"primaryFields": []map[string]any{
				{"key": "floor", "label": "Floor", "value": floor},
			},
			"secondaryFields": secondary,
		},
		"barcode": map[string]any{
			"message":         info.Serial,
			"format":          "PKBarcodeFormatQR",
			"messageEncoding": "iso-8859-1",
		},
	}
}
