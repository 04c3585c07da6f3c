// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package ais

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantMsg string
	}{
		{
			name:    "missing endpoint",
			cfg:     Config{Bucket: "demo"},
			wantMsg: "endpoint must be set",
		},
		{
			name:    "missing bucket",
			cfg:     Config{Endpoint: "ais.example.com"},
			wantMsg: "bucket must be set",
		},
		{
			name:    "plain http refused",
			cfg:     Config{Endpoint: "http://ais.example.com", Bucket: "demo"},
			wantMsg: "uses plain http",
		},
		{
			name:    "unsupported scheme",
			cfg:     Config{Endpoint: "ftp://ais.example.com", Bucket: "demo"},
			wantMsg: "unsupported endpoint scheme",
		},
		{
			name:    "no host",
			cfg:     Config{Endpoint: "https://", Bucket: "demo"},
			wantMsg: "no host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.cfg)

			var aisErr *Error
			require.ErrorAs(t, err, &aisErr)
			assert.Equal(t, KindConfiguration, aisErr.Kind)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNew_BucketURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "bare host defaults to https",
			cfg:  Config{Endpoint: "ais.example.com", Bucket: "demo"},
			want: "https://ais.example.com/s3/demo",
		},
		{
			name: "explicit scheme and port",
			cfg:  Config{Endpoint: "https://ais.example.com:51080", Bucket: "demo"},
			want: "https://ais.example.com:51080/s3/demo",
		},
		{
			name: "http with AllowHTTP",
			cfg:  Config{Endpoint: "http://localhost:8080", Bucket: "demo", AllowHTTP: true},
			want: "http://localhost:8080/s3/demo",
		},
		{
			name: "bucket at root",
			cfg:  Config{Endpoint: "ais.example.com", Bucket: "demo", S3ViaRoot: true},
			want: "https://ais.example.com/demo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := New(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.baseURL)
			assert.Equal(t, tt.cfg.Bucket, c.Bucket())
		})
	}
}

func TestNew_Policy(t *testing.T) {
	t.Parallel()

	c, err := New(Config{Endpoint: "ais.example.com", Bucket: "demo"})
	require.NoError(t, err)
	assert.Equal(t, DefaultRequestPolicy(), c.policy)

	custom := &RequestPolicy{MaxRetries: 7, MaxRedirects: 1, InitialDelay: time.Second, Factor: 3, MaxDelay: time.Minute}
	c, err = New(Config{Endpoint: "ais.example.com", Bucket: "demo", Policy: custom})
	require.NoError(t, err)
	assert.Equal(t, *custom, c.policy)
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	hc := &http.Client{Timeout: 5 * time.Second}
	c, err := New(
		Config{Endpoint: "ais.example.com", Bucket: "demo"},
		WithHTTPClient(hc),
		WithRateLimit(10, 2),
		WithTokenSource(staticToken("from-source")),
	)
	require.NoError(t, err)

	// The supplied client is copied, and the copy never follows redirects
	// on its own.
	require.NotSame(t, hc, c.httpClient)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	assert.NotNil(t, c.httpClient.CheckRedirect)
	assert.Nil(t, hc.CheckRedirect)

	require.NotNil(t, c.limiter)
	require.NotNil(t, c.token)
	tok, err := c.token.Token()
	require.NoError(t, err)
	assert.Equal(t, "from-source", tok.AccessToken)
}

// ============================================================================
// Token checks
// ============================================================================

func signedJWT(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestCheckToken(t *testing.T) {
	t.Parallel()

	t.Run("opaque token passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, checkToken("not-a-jwt-at-all"))
	})

	t.Run("jwt without expiry passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, checkToken(signedJWT(t, jwt.MapClaims{"sub": "tester"})))
	})

	t.Run("live jwt passes", func(t *testing.T) {
		t.Parallel()
		raw := signedJWT(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
		assert.NoError(t, checkToken(raw))
	})

	t.Run("expired jwt rejected", func(t *testing.T) {
		t.Parallel()
		raw := signedJWT(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
		err := checkToken(raw)

		var aisErr *Error
		require.ErrorAs(t, err, &aisErr)
		assert.Equal(t, KindConfiguration, aisErr.Kind)
		assert.Contains(t, err.Error(), "expired")
	})
}

func TestNew_ExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	raw := signedJWT(t, jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()})
	_, err := New(Config{Endpoint: "ais.example.com", Bucket: "demo", Token: raw})

	var aisErr *Error
	require.ErrorAs(t, err, &aisErr)
	assert.Equal(t, KindConfiguration, aisErr.Kind)
}
