package httpapi

import (
	"context"
	"net/http"
	"peopledb/internal/core"
	"peopledb/internal/infra/persistence/sqlexec"
	"peopledb/internal/infra/persistence/sqlite"
	"peopledb/pkg/domain"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHandlerAgainstSQLiteService(t *testing.T) {
	store, err := sqlite.Open(context.Background(), sqlite.MemoryPath, sqlexec.PoolConfig{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	svc := core.NewService(store)
	t.Cleanup(func() { _ = svc.Close() })
	h := NewHandler(svc)

	rec := do(t, h, http.MethodPost, "/person", `{"name":"John","job":"Programmer","is_adult":true,"favorite_number":27}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create person: %d %s", rec.Code, rec.Body.String())
	}
	john := decode[domain.Person](t, rec)

	rec = do(t, h, http.MethodPost, "/organization", `{"name":"Acme","address":"Main St","phone":"555","ceo_id":`+strconv.Itoa(int(john.ID))+`}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create organization: %d %s", rec.Code, rec.Body.String())
	}
	org := decode[domain.Organization](t, rec)

	rec = do(t, h, http.MethodGet, "/person/"+strconv.Itoa(int(john.ID)), "")
	if diff := cmp.Diff(john, decode[domain.Person](t, rec)); diff != "" {
		t.Fatalf("person mismatch (-want +got):\n%s", diff)
	}
	rec = do(t, h, http.MethodGet, "/organization", "")
	want := []domain.OrganizationWithCeo{org.WithCEO(john)}
	if diff := cmp.Diff(want, decode[[]domain.OrganizationWithCeo](t, rec)); diff != "" {
		t.Fatalf("organizations mismatch (-want +got):\n%s", diff)
	}
	rec = do(t, h, http.MethodGet, "/person/limit/0", "")
	if got := decode[[]domain.Person](t, rec); got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
	if rec := do(t, h, http.MethodGet, "/person/999", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
