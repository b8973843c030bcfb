package auth

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/cardsvc-io/cardctl/pkg/cardapi"
)

// AdminRole is the fixed role marker the card API encodes in admin tokens.
const AdminRole = "admin"

// DecodeIdentity reads the display claims from the payload segment of an
// access token. The signature is never verified here; the server enforces
// authenticity, and the client only uses the claims for display. Any
// malformed token, undecodable payload, or missing required claim yields nil
// rather than an error.
func DecodeIdentity(token string) *cardapi.Identity {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil
	}

	var claims struct {
		Sub      json.Number `json:"sub"`
		Username string      `json:"username"`
		Role     string      `json:"role"`
	}

	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	if decoder.Decode(&claims) != nil {
		return nil
	}

	id, err := claims.Sub.Int64()
	if err != nil {
		return nil
	}

	if claims.Username == "" || claims.Role != AdminRole {
		return nil
	}

	return &cardapi.Identity{
		ID:       id,
		Username: claims.Username,
		Role:     claims.Role,
	}
}

// decodeSegment accepts both padded and unpadded base64url payloads.
func decodeSegment(segment string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(segment)
	if err == nil {
		return data, nil
	}

	return base64.URLEncoding.DecodeString(segment)
}
