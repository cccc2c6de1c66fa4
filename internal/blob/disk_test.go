package blob_test

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"construction-ledger/internal/blob"
)

func newTestStore(t *testing.T) *blob.DiskStore {
	t.Helper()
	store, err := blob.NewDiskStore(t.TempDir(), "/files", []byte("test-secret"))
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	return store
}

// parseSignedURL pulls key, exp and sig out of a URL the store produced.
func parseSignedURL(t *testing.T, signed string) (key string, exp int64, sig string) {
	t.Helper()
	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parse signed URL %q: %v", signed, err)
	}
	key = strings.TrimPrefix(u.Path, "/files/")
	exp, err = strconv.ParseInt(u.Query().Get("exp"), 10, 64)
	if err != nil {
		t.Fatalf("parse exp: %v", err)
	}
	return key, exp, u.Query().Get("sig")
}

func TestDiskStore_PutAndOpen(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key, err := store.Put(ctx, "receipt.pdf", "application/pdf", strings.NewReader("pdf-bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !strings.HasSuffix(key, "__receipt.pdf") {
		t.Errorf("key %q does not carry the sanitized filename", key)
	}

	rc, name, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "pdf-bytes" {
		t.Errorf("payload = %q, want pdf-bytes", data)
	}
	if name != key {
		t.Errorf("name = %q, want %q", name, key)
	}
}

func TestDiskStore_FilenameSanitized(t *testing.T) {
	store := newTestStore(t)

	key, err := store.Put(context.Background(), "../../etc/pass wd?.pdf", "application/pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if strings.ContainsAny(key, "/? ") {
		t.Errorf("key %q contains unsafe characters", key)
	}
}

func TestDiskStore_SignedURLRoundTrip(t *testing.T) {
	store := newTestStore(t)

	key, err := store.Put(context.Background(), "a.png", "image/png", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	signed, err := store.SignedURL(key, time.Minute)
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}
	k, exp, sig := parseSignedURL(t, signed)
	if k != key {
		t.Fatalf("URL key = %q, want %q", k, key)
	}
	if !store.Verify(k, exp, sig) {
		t.Error("fresh signature did not verify")
	}

	t.Run("expired link is rejected", func(t *testing.T) {
		pastExp := time.Now().Add(-time.Minute).Unix()
		if store.Verify(k, pastExp, sig) {
			t.Error("expired link verified")
		}
	})

	t.Run("tampered key is rejected", func(t *testing.T) {
		if store.Verify("other-key", exp, sig) {
			t.Error("signature verified for a different key")
		}
	})

	t.Run("tampered signature is rejected", func(t *testing.T) {
		if store.Verify(k, exp, "deadbeef") {
			t.Error("forged signature verified")
		}
	})
}

func TestDiskStore_OpenRejectsPathTraversal(t *testing.T) {
	store := newTestStore(t)
	if _, _, err := store.Open(context.Background(), "../secrets"); err == nil {
		t.Error("expected error for traversal key, got nil")
	}
}

func TestDiskStore_EmptySecretRejected(t *testing.T) {
	if _, err := blob.NewDiskStore(t.TempDir(), "/files", nil); err == nil {
		t.Error("expected error for empty secret, got nil")
	}
}
