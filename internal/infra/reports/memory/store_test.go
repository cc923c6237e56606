package memory

import (
	"context"
	"errors"
	"io"
	"peopledb/internal/reports/core"
	"strings"
	"testing"
)

func TestStorePutGetList(t *testing.T) {
	ctx := context.Background()
	s := New()
	md := map[string]string{"n": "10"}
	info, err := s.Put(ctx, "runs/a.json", strings.NewReader(`{"a":1}`), core.PutOptions{ContentType: "application/json", Metadata: md})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	md["n"] = "mutated"
	if info.Size != 7 || info.Metadata["n"] != "10" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := s.Put(ctx, "runs/a.json", strings.NewReader("x"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := s.Put(ctx, "other/b.json", strings.NewReader("{}"), core.PutOptions{}); err != nil {
		t.Fatalf("Put other: %v", err)
	}

	got, rc, err := s.Get(ctx, "runs/a.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != `{"a":1}` || got.ContentType != "application/json" {
		t.Fatalf("unexpected object %q %+v", body, got)
	}
	if _, err := s.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	list, err := s.List(ctx, "runs/")
	if err != nil || len(list) != 1 || list[0].Key != "runs/a.json" {
		t.Fatalf("unexpected list %+v (err %v)", list, err)
	}
	if s.Driver() != core.DriverMemory {
		t.Fatalf("unexpected driver %s", s.Driver())
	}
}
