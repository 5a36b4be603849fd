package drive

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/drive2md/internal/fault"
)

func TestCredentialFromBearer(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   bool
	}{
		{
			name:      "bearer prefix",
			header:    "Bearer ya29.token-value",
			wantToken: "ya29.token-value",
		},
		{
			name:      "raw token",
			header:    "ya29.token-value",
			wantToken: "ya29.token-value",
		},
		{
			name:      "surrounding whitespace",
			header:    "  Bearer ya29.token-value  ",
			wantToken: "ya29.token-value",
		},
		{
			name:    "empty header",
			header:  "",
			wantErr: true,
		},
		{
			name:    "bearer with no token",
			header:  "Bearer ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred, err := CredentialFromBearer(tt.header)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, fault.MissingCredential, fault.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, cred.Token())
		})
	}
}

// Formatting a credential must never expose the token.
func TestCredentialStringRedacts(t *testing.T) {
	cred, err := CredentialFromBearer("Bearer super-secret")
	require.NoError(t, err)
	assert.NotContains(t, fmt.Sprintf("%v", cred), "super-secret")
	assert.NotContains(t, fmt.Sprintf("%s", cred), "super-secret")
}
