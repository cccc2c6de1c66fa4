package blob

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DiskStore keeps payloads on the local filesystem and hands out
// HMAC-signed expiring links served by the web layer. It stands in for an
// object store in deployments that do not have one.
type DiskStore struct {
	dir     string
	secret  []byte
	baseURL string // e.g. "/files" — prefix of the download route
}

// NewDiskStore creates the storage directory if needed.
func NewDiskStore(dir, baseURL string, secret []byte) (*DiskStore, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("blob signing secret must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir %s: %w", dir, err)
	}
	return &DiskStore{dir: dir, secret: secret, baseURL: baseURL}, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^\w.\-]+`)

func (s *DiskStore) Put(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	safe := unsafeKeyChars.ReplaceAllString(filepath.Base(filename), "_")
	key := fmt.Sprintf("%s__%s", uuid.NewString(), safe)

	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", fmt.Errorf("create blob %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write blob %s: %w", key, err)
	}
	return key, nil
}

// SignedURL returns baseURL/key?exp=...&sig=... where sig is an HMAC over
// key and expiry. Anyone holding the URL can fetch the payload until exp.
func (s *DiskStore) SignedURL(key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty blob key")
	}
	exp := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("%s/%s?exp=%d&sig=%s", s.baseURL, key, exp, s.sign(key, exp)), nil
}

// Verify checks a key/expiry/signature triple from a download request.
func (s *DiskStore) Verify(key string, exp int64, sig string) bool {
	if time.Now().Unix() > exp {
		return false
	}
	expected := s.sign(key, exp)
	return hmac.Equal([]byte(expected), []byte(sig))
}

func (s *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	// Keys are generated internally but the name still arrives via URL;
	// refuse anything that escapes the storage directory.
	if filepath.Base(key) != key {
		return nil, "", fmt.Errorf("invalid blob key %q", key)
	}
	f, err := os.Open(filepath.Join(s.dir, key))
	if err != nil {
		return nil, "", fmt.Errorf("open blob %s: %w", key, err)
	}
	return f, key, nil
}

func (s *DiskStore) sign(key string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(key))
	mac.Write([]byte(strconv.FormatInt(exp, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
