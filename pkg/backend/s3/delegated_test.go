package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVendedURL(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantBucket string
		wantCC     clientConfig
		wantErr    string
	}{
		{
			name:       "full URL",
			raw:        "https://gateway.example.com/acme-media-private?access-key-id=AKID&secret-access-key=SECRET&session-token=TOKEN",
			wantBucket: "acme-media-private",
			wantCC: clientConfig{
				accessKeyID:     "AKID",
				secretAccessKey: "SECRET",
				sessionToken:    "TOKEN",
				endpoint:        "https://gateway.example.com",
			},
		},
		{
			name:       "no session token",
			raw:        "http://localhost:9000/acme-media-public?access-key-id=AKID&secret-access-key=SECRET",
			wantBucket: "acme-media-public",
			wantCC: clientConfig{
				accessKeyID:     "AKID",
				secretAccessKey: "SECRET",
				endpoint:        "http://localhost:9000",
			},
		},
		{
			name:    "missing bucket path",
			raw:     "https://gateway.example.com/?access-key-id=AKID&secret-access-key=SECRET",
			wantErr: "exactly one bucket",
		},
		{
			name:    "nested path",
			raw:     "https://gateway.example.com/bucket/extra?access-key-id=AKID&secret-access-key=SECRET",
			wantErr: "exactly one bucket",
		},
		{
			name:    "missing access key id",
			raw:     "https://gateway.example.com/bucket?secret-access-key=SECRET",
			wantErr: "access-key-id",
		},
		{
			name:    "missing secret",
			raw:     "https://gateway.example.com/bucket?access-key-id=AKID",
			wantErr: "secret-access-key",
		},
		{
			name:    "unsupported scheme",
			raw:     "ftp://gateway.example.com/bucket?access-key-id=AKID&secret-access-key=SECRET",
			wantErr: "unsupported scheme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc, bucket, err := parseVendedURL(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantCC, cc)
		})
	}
}
