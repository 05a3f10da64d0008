package tokenstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gemach/admin-console/internal/core/domain"
)

var errMalformed = errors.New("malformed token")

// segmentParser is used only for its base64url segment decoding. Nothing in
// this file verifies a signature.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

type unverifiedPayload struct {
	claims    jwt.MapClaims
	ExpiresAt *jwt.NumericDate
}

// decodePayload reads the middle segment of a header.payload.signature token.
// The header and signature segments are not inspected. A present but
// non-numeric exp is an error; an absent exp leaves ExpiresAt nil.
func decodePayload(token string) (*unverifiedPayload, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[1] == "" {
		return nil, errMalformed
	}

	raw, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var claims jwt.MapClaims
	if err := dec.Decode(&claims); err != nil {
		return nil, err
	}
	if claims == nil {
		return nil, errMalformed
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, err
	}
	return &unverifiedPayload{claims: claims, ExpiresAt: exp}, nil
}

func (p *unverifiedPayload) toDomain() *domain.TokenPayload {
	out := &domain.TokenPayload{Claims: map[string]any(p.claims)}
	if p.ExpiresAt != nil {
		out.ExpiresAt = p.ExpiresAt.Unix()
	}
	if iat, err := p.claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Unix()
	}
	out.Subject, _ = p.claims.GetSubject()
	out.Email, _ = p.claims["email"].(string)
	out.Role, _ = p.claims["role"].(string)
	return out
}
