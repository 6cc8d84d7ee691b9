package keygen

import "encoding/base64"

// EncodeKey converts raw hash bytes into a string safe to embed in a URL path
// segment. Padless base64url keeps the full entropy of the input; keys are
// looked up verbatim and never decoded back, so no Decode is provided.
func EncodeKey(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}
