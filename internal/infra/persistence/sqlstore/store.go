// Package sqlstore implements domain.Repository on top of the sqlexec
// executor and the rowmap mappers. The backend is chosen entirely by the
// Statements it is constructed with.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"peopledb/internal/infra/persistence/rowmap"
	"peopledb/internal/infra/persistence/sqlexec"
	"peopledb/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.Repository = (*Store)(nil)

var (
	// ErrNegativeLimit rejects a negative row limit before it reaches engines
	// that would read it as "no limit".
	ErrNegativeLimit = errors.New("limit must not be negative")
	// ErrNoRowReturned marks an insert that produced no row.
	ErrNoRowReturned = errors.New("insert returned no row")
)

// Store runs repository operations, one pooled connection per call.
type Store struct {
	pool *sqlexec.Pool
	name string

	listPeople         boundQuery[domain.Person]
	listPeopleLimit    boundQuery[domain.Person]
	personByID         boundQuery[domain.Person]
	organizationCEO    boundQuery[domain.Person]
	insertPerson       boundQuery[domain.Person]
	insertOrganization boundQuery[domain.Organization]
	listOrganizations  boundQuery[domain.Organization]
}

// New validates stmts against the entity mappers and returns a store that
// runs them on pool.
func New(pool *sqlexec.Pool, stmts Statements) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("sqlstore: pool required")
	}
	s := &Store{pool: pool, name: stmts.Name}
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	var err error
	s.listPeople, err = bind("ListPeople", stmts.ListPeople, rowmap.Person)
	collect(err)
	s.listPeopleLimit, err = bind("ListPeopleLimit", stmts.ListPeopleLimit, rowmap.Person)
	collect(err)
	s.personByID, err = bind("PersonByID", stmts.PersonByID, rowmap.Person)
	collect(err)
	s.organizationCEO, err = bind("OrganizationCEO", stmts.OrganizationCEO, rowmap.Person)
	collect(err)
	s.insertPerson, err = bind("InsertPerson", stmts.InsertPerson, rowmap.Person)
	collect(err)
	s.insertOrganization, err = bind("InsertOrganization", stmts.InsertOrganization, rowmap.Organization)
	collect(err)
	s.listOrganizations, err = bind("ListOrganizations", stmts.ListOrganizations, rowmap.Organization)
	collect(err)
	if len(errs) > 0 {
		return nil, fmt.Errorf("sqlstore %s: %w", stmts.Name, errors.Join(errs...))
	}
	return s, nil
}

// Name identifies the statement configuration in use.
func (s *Store) Name() string { return s.name }

// Pool returns the connection pool the store draws from.
func (s *Store) Pool() *sqlexec.Pool { return s.pool }

// Close closes the underlying pool.
func (s *Store) Close() error { return s.pool.Close() }

// ListPeople returns every person ordered by id.
func (s *Store) ListPeople(ctx context.Context) ([]domain.Person, error) {
	var people []domain.Person
	err := s.pool.WithConn(ctx, func(c *sqlexec.Conn) error {
		var err error
		people, err = fetch(ctx, c, s.listPeople)
		return err
	})
	return people, err
}

// ListPeopleLimit returns at most limit people ordered by id.
func (s *Store) ListPeopleLimit(ctx context.Context, limit int64) ([]domain.Person, error) {
	if limit < 0 {
		return nil, &domain.QueryError{Statement: s.listPeopleLimit.SQL, Err: ErrNegativeLimit}
	}
	var people []domain.Person
	err := s.pool.WithConn(ctx, func(c *sqlexec.Conn) error {
		var err error
		people, err = fetch(ctx, c, s.listPeopleLimit, limit)
		return err
	})
	return people, err
}

// GetPerson returns the person with id or domain.ErrNotFound.
func (s *Store) GetPerson(ctx context.Context, id int32) (domain.Person, error) {
	var person domain.Person
	err := s.pool.WithConn(ctx, func(c *sqlexec.Conn) error {
		var err error
		person, err = fetchOne(ctx, c, s.personByID, domain.NotFound(domain.EntityPerson, id), id)
		return err
	})
	return person, err
}

// GetOrganizationCEO resolves the CEO of an organization. A missing
// organization and a dangling ceo_id both read as domain.ErrNotFound.
func (s *Store) GetOrganizationCEO(ctx context.Context, organizationID int32) (domain.Person, error) {
	var ceo domain.Person
	err := s.pool.WithConn(ctx, func(c *sqlexec.Conn) error {
		var err error
		ceo, err = s.ceoOf(ctx, c, organizationID)
		return err
	})
	return ceo, err
}

// InsertPerson stores person and returns the row the store reports back.
func (s *Store) InsertPerson(ctx context.Context, person domain.NewPerson) (domain.Person, error) {
	var created domain.Person
	err := s.pool.WithConn(ctx, func(c *sqlexec.Conn) error {
		var err error
		created, err = fetchOne(ctx, c, s.insertPerson,
			&domain.QueryError{Statement: s.insertPerson.SQL, Err: ErrNoRowReturned},
			person.Name, person.Job, person.IsAdult, person.FavoriteNumber)
		return err
	})
	return created, err
}

// InsertOrganization stores organization and returns the persisted row. The
// ceo_id reference is left to the store's constraints.
func (s *Store) InsertOrganization(ctx context.Context, organization domain.NewOrganization) (domain.Organization, error) {
	var created domain.Organization
	err := s.pool.WithConn(ctx, func(c *sqlexec.Conn) error {
		var err error
		created, err = fetchOne(ctx, c, s.insertOrganization,
			&domain.QueryError{Statement: s.insertOrganization.SQL, Err: ErrNoRowReturned},
			organization.Name, organization.Address, organization.Phone, organization.CEOID)
		return err
	})
	return created, err
}

// ListOrganizations returns every organization ordered by id.
func (s *Store) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	var orgs []domain.Organization
	err := s.pool.WithConn(ctx, func(c *sqlexec.Conn) error {
		var err error
		orgs, err = fetch(ctx, c, s.listOrganizations)
		return err
	})
	return orgs, err
}

// ListOrganizationsWithCEO lists organizations and resolves each CEO on the
// same connection, one lookup per organization. Any failed lookup fails the
// whole call.
func (s *Store) ListOrganizationsWithCEO(ctx context.Context) ([]domain.OrganizationWithCeo, error) {
	var out []domain.OrganizationWithCeo
	err := s.pool.WithConn(ctx, func(c *sqlexec.Conn) error {
		orgs, err := fetch(ctx, c, s.listOrganizations)
		if err != nil {
			return err
		}
		out = make([]domain.OrganizationWithCeo, 0, len(orgs))
		for _, org := range orgs {
			ceo, err := s.ceoOf(ctx, c, org.ID)
			if err != nil {
				return fmt.Errorf("resolve ceo of organization %d: %w", org.ID, err)
			}
			out = append(out, org.WithCEO(ceo))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ceoOf(ctx context.Context, c *sqlexec.Conn, organizationID int32) (domain.Person, error) {
	return fetchOne(ctx, c, s.organizationCEO, domain.NotFound(domain.EntityOrganizationCEO, organizationID), organizationID)
}

func fetch[T any](ctx context.Context, c *sqlexec.Conn, q boundQuery[T], inputs ...any) ([]T, error) {
	rows, err := c.Query(ctx, q.SQL, q.args(inputs...)...)
	if err != nil {
		return nil, err
	}
	if q.Procedure {
		rows = matchedOutputs(rows)
	}
	return rowmap.MapAll(q.mapper, rows)
}

// fetchOne returns the first mapped row, or empty when there is none.
func fetchOne[T any](ctx context.Context, c *sqlexec.Conn, q boundQuery[T], empty error, inputs ...any) (T, error) {
	items, err := fetch(ctx, c, q, inputs...)
	if err != nil {
		var zero T
		return zero, err
	}
	if len(items) == 0 {
		var zero T
		return zero, empty
	}
	return items[0], nil
}

// matchedOutputs drops the all-NULL output row a procedure returns when it
// matched nothing.
func matchedOutputs(rows []sqlexec.Row) []sqlexec.Row {
	out := rows[:0]
	for _, row := range rows {
		if !row.AllNull() {
			out = append(out, row)
		}
	}
	return out
}
