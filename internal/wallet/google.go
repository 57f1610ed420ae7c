package wallet

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/park-keeper/internal/errs"
)

const (
	googleSaveBase = "https://pay.google.com/gp/v/save/"
	walletScope    = "https://www.googleapis.com/auth/wallet_object.issuer"

	defaultAPIBase  = "https://walletobjects.googleapis.com/walletobjects/v1"
	defaultTokenURI = "https://oauth2.googleapis.com/token"
)

// ServiceAccount holds the Google service-account credentials used to sign
// save links and to authenticate object patches.
type ServiceAccount struct {
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`

	key *rsa.PrivateKey
}

// LoadServiceAccount reads and parses a service-account JSON key file.
func LoadServiceAccount(path string) (*ServiceAccount, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account: %w", err)
	}
	var sa ServiceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}
	sa.key, err = jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	if sa.TokenURI == "" {
		sa.TokenURI = defaultTokenURI
	}
	return &sa, nil
}

// Google is the direct-patch platform adapter. Pass creation is link-based:
// the client opens a signed save URL, there is no server round trip. Updates
// go through the genericObject patch API.
type Google struct {
	IssuerID    string
	ClassSuffix string // generic pass class under the issuer, e.g. "parking_generic"
	Origin      string
	Lat, Lon    float64
	SA          *ServiceAccount

	HTTPClient *http.Client
	APIBase    string
}

// ObjectID mints the deterministic object id for a pass serial.
func (g *Google) ObjectID(serial string) string {
	return g.IssuerID + "." + serial
}

func (g *Google) classID() string {
	suffix := g.ClassSuffix
	if suffix == "" {
		suffix = "parking_generic"
	}
	return g.IssuerID + "." + suffix
}

// Create builds the save URL; the object comes into existence when the user
// follows it. The same (session, garage) always mints the same object id, so
// repeated creations converge on one pass.
func (g *Google) Create(_ context.Context, info PassInfo) (Created, error) {
	saveURL, err := g.SaveURL(info)
	if err != nil {
		return Created{}, err
	}
	return Created{ObjectID: g.ObjectID(info.Serial), SaveURL: saveURL}, nil
}

// SaveURL signs a savetoandroidpay JWT embedding the pass object and class.
func (g *Google) SaveURL(info PassInfo) (string, error) {
	object := map[string]any{
		"id":      g.ObjectID(info.Serial),
		"classId": g.classID(),
		"logo": map[string]any{
			"sourceUri": map[string]any{"uri": g.Origin + "/logo.png"},
		},
		"cardTitle": localized("Parking Helper"),
		"subheader": localized("Garage " + info.Garage),
		"header":    localized(headerText(info)),
		"textModulesData": []map[string]any{
			{"header": "Stair/Elevator", "body": info.Stair},
		},
		"locations": []map[string]any{
			{"latitude": g.Lat, "longitude": g.Lon},
		},
	}
	class := map[string]any{
		"id":           g.classID(),
		"issuerName":   "Parking Helper",
		"reviewStatus": "underReview",
		"locations": []map[string]any{
			{"latitude": g.Lat, "longitude": g.Lon},
		},
	}

	claims := jwt.MapClaims{
		"iss":     g.SA.ClientEmail,
		"aud":     "google",
		"typ":     "savetoandroidpay",
		"iat":     time.Now().Unix(),
		"origins": []string{g.Origin},
		"payload": map[string]any{
			"genericObjects": []map[string]any{object},
			"genericClasses": []map[string]any{class},
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = g.SA.PrivateKeyID
	signed, err := tok.SignedString(g.SA.key)
	if err != nil {
		return "", fmt.Errorf("sign save jwt: %w", err)
	}
	return googleSaveBase + signed, nil
}

// Patch updates the live object's header/subheader/stair fields.
func (g *Google) Patch(ctx context.Context, objectID string, info PassInfo) error {
	token, err := g.bearerToken(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]any{
		"header":    localized(headerText(info)),
		"subheader": localized("Garage " + info.Garage),
		"textModulesData": []map[string]any{
			{"header": "Stair/Elevator", "body": info.Stair},
		},
	})
	if err != nil {
		return err
	}

	apiBase := g.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	endpoint := apiBase + "/genericObject/" + url.PathEscape(objectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client().Do(req)
	if err != nil {
		return fmt.Errorf("%w: patch %s: %v", errs.ErrPlatformUnavailable, objectID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: patch %s: status %d: %s", errs.ErrPlatformUnavailable, objectID, resp.StatusCode, msg)
	}
	return nil
}

// Fetch is unsupported: this platform never pulls content from the server.
func (g *Google) Fetch(context.Context, PassInfo) ([]byte, string, error) {
	return nil, "", errs.ErrUnsupported
}

// bearerToken exchanges a self-signed service-account JWT for an access
// token via the OAuth2 jwt-bearer grant.
func (g *Google) bearerToken(ctx context.Context) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   g.SA.ClientEmail,
		"scope": walletScope,
		"aud":   g.SA.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = g.SA.PrivateKeyID
	assertion, err := tok.SignedString(g.SA.key)
	if err != nil {
		return "", fmt.Errorf("sign grant jwt: %w", err)
	}

	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.SA.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token exchange: %v", errs.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: token exchange: status %d: %s", errs.ErrPlatformUnavailable, resp.StatusCode, msg)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("%w: token exchange: empty access token", errs.ErrPlatformUnavailable)
	}
	return payload.AccessToken, nil
}

func (g *Google) client() *http.Client {
	if g.HTTPClient != nil {
		return g.HTTPClient
	}
	return http.DefaultClient
}

func headerText(info PassInfo) string {
	if !info.Located {
		return "Location unknown"
	}
	return "Floor " + info.Floor
}

func localized(v string) map[string]any {
	return map[string]any{
		"defaultValue": map[string]any{"language": "en-US", "value": v},
	}
}
