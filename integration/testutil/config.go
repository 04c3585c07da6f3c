//go:build integration

package testutil

import (
	"os"
	"testing"
)

// StoreConfig describes the endpoint an integration run targets. Everything
// comes from ZAPSTORE_TEST_* environment variables so the same suite can be
// pointed at AIStore, MinIO, or real S3.
type StoreConfig struct {
	Store     string
	Endpoint  string
	Bucket    string
	Token     string
	AccessKey string
	SecretKey string
	Region    string
	AllowHTTP bool
	S3ViaRoot bool
}

// DefaultStoreConfig returns the store configuration for local testing.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Store:     GetEnv("ZAPSTORE_TEST_STORE", "ais"),
		Endpoint:  os.Getenv("ZAPSTORE_TEST_ENDPOINT"),
		Bucket:    GetEnv("ZAPSTORE_TEST_BUCKET", "zapstore-test"),
		Token:     os.Getenv("ZAPSTORE_TEST_TOKEN"),
		AccessKey: os.Getenv("ZAPSTORE_TEST_ACCESS_KEY"),
		SecretKey: os.Getenv("ZAPSTORE_TEST_SECRET_KEY"),
		Region:    os.Getenv("ZAPSTORE_TEST_REGION"),
		AllowHTTP: GetEnv("ZAPSTORE_TEST_ALLOW_HTTP", "true") == "true",
		S3ViaRoot: os.Getenv("ZAPSTORE_TEST_S3_ROOT") == "true",
	}
}

// SkipWithoutEndpoint skips the test unless an endpoint is configured.
func SkipWithoutEndpoint(t *testing.T) StoreConfig {
	t.Helper()
	cfg := DefaultStoreConfig()
	if cfg.Endpoint == "" {
		t.Skip("ZAPSTORE_TEST_ENDPOINT not set")
	}
	return cfg
}
