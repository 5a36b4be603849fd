package drive

import (
	"strings"

	"github.com/teemow/drive2md/internal/fault"
)

// Credential wraps the bearer token forwarded by the upstream proxy for one
// invocation. It is never logged, never persisted and never reused across
// invocations; the upstream proxy is the sole owner of the credential
// lifecycle (issuance, refresh, revocation).
type Credential struct {
	token string
}

// CredentialFromBearer validates the forwarded Authorization header value
// and wraps its token. It accepts both the full "Bearer <token>" form and a
// raw token. The token is not verified against Google here; an invalid token
// surfaces as auth_error on first use.
func CredentialFromBearer(headerValue string) (Credential, error) {
	token := strings.TrimSpace(headerValue)
	if rest, ok := strings.CutPrefix(token, "Bearer "); ok {
		token = strings.TrimSpace(rest)
	}
	if token == "" {
		return Credential{}, fault.New(fault.MissingCredential, "no bearer token in Authorization header")
	}
	return Credential{token: token}, nil
}

// Token returns the raw access token.
func (c Credential) Token() string {
	return c.token
}

// String implements fmt.Stringer without exposing the token, so accidental
// formatting of a Credential cannot leak it into logs.
func (c Credential) String() string {
	return "drive.Credential(redacted)"
}
