package s3

import (
	"context"
	"errors"
	"io"
	"peopledb/internal/reports/core"
	"strings"
	"testing"
)

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
}

func TestMockStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewMockForTests(ctx)
	if err != nil {
		t.Fatalf("NewMockForTests: %v", err)
	}
	if s.Driver() != core.DriverS3 {
		t.Fatalf("unexpected driver %s", s.Driver())
	}
	info, err := s.Put(ctx, "layoutbench/one.json", strings.NewReader(`{"n":1}`), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"records": "1"},
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if info.Size != 7 || info.ContentType != "application/json" || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.Metadata["records"] != "1" {
		t.Fatalf("expected metadata round trip, got %+v", info.Metadata)
	}
	if _, err := s.Put(ctx, "layoutbench/one.json", strings.NewReader("x"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := s.Put(ctx, "layoutbench/two.json", strings.NewReader("{}"), core.PutOptions{}); err != nil {
		t.Fatalf("Put two: %v", err)
	}

	_, rc, err := s.Get(ctx, "layoutbench/one.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != `{"n":1}` {
		t.Fatalf("unexpected body %q", body)
	}
	if _, err := s.Head(ctx, "layoutbench/missing.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from head, got %v", err)
	}
	if _, _, err := s.Get(ctx, "layoutbench/missing.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}

	list, err := s.List(ctx, "layoutbench/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Key != "layoutbench/one.json" || list[1].Key != "layoutbench/two.json" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestNewUsesStaticCredentials(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, Config{
		Bucket:          "bench",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "wJalrXUtnFEMI",
		SessionToken:    "token",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	creds, err := s.client.Options().Credentials.Retrieve(ctx)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if creds.AccessKeyID != "AKIDEXAMPLE" || creds.SecretAccessKey != "wJalrXUtnFEMI" || creds.SessionToken != "token" {
		t.Fatalf("unexpected credentials %+v", creds)
	}
	if region := s.client.Options().Region; region != "us-east-1" {
		t.Fatalf("expected default region, got %q", region)
	}
}
