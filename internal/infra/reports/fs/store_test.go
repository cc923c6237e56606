package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"peopledb/internal/reports/core"
	"strings"
	"testing"
)

func TestSanitizeKeyErrors(t *testing.T) {
	for _, key := range []string{"", "  ", "../escape", "/abs", "a/../b", "x.meta"} {
		if _, err := sanitizeKey(key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := New(filepath.Join(root, "reports"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	info, err := s.Put(ctx, "layoutbench/run.json", strings.NewReader("payload"), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"records": "5"},
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if info.Size != 7 || len(info.ETag) != 64 {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := s.Put(ctx, "layoutbench/run.json", strings.NewReader("again"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	head, err := s.Head(ctx, "layoutbench/run.json")
	if err != nil || head.Metadata["records"] != "5" || head.ETag != info.ETag {
		t.Fatalf("unexpected head %+v (err %v)", head, err)
	}
	_, rc, err := s.Get(ctx, "layoutbench/run.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "payload" {
		t.Fatalf("unexpected body %q", body)
	}
	if _, _, err := s.Get(ctx, "layoutbench/missing.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	list, err := s.List(ctx, "layoutbench/")
	if err != nil || len(list) != 1 || list[0].Key != "layoutbench/run.json" {
		t.Fatalf("unexpected list %+v (err %v)", list, err)
	}
	empty, err := s.List(ctx, "nothing/")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %v (err %v)", empty, err)
	}
}

func TestListFailsOnCorruptMeta(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "bad.json"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write data: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "bad.json.meta"), []byte("{"), 0o600); err != nil {
		t.Fatalf("write meta: %v", err)
	}
	if _, err := s.List(context.Background(), ""); err == nil {
		t.Fatalf("expected list error on corrupt meta")
	}
}
