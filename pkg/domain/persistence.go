package domain

import "context"

// Repository is the data-access contract served by every storage backend.
// Each call checks out one pooled connection for its own duration.
type Repository interface {
	ListPeople(ctx context.Context) ([]Person, error)
	ListPeopleLimit(ctx context.Context, limit int64) ([]Person, error)
	GetPerson(ctx context.Context, id int32) (Person, error)
	GetOrganizationCEO(ctx context.Context, organizationID int32) (Person, error)
	InsertPerson(ctx context.Context, person NewPerson) (Person, error)
	InsertOrganization(ctx context.Context, organization NewOrganization) (Organization, error)
	ListOrganizations(ctx context.Context) ([]Organization, error)
	// ListOrganizationsWithCEO fails as a whole when any CEO fails to resolve.
	ListOrganizationsWithCEO(ctx context.Context) ([]OrganizationWithCeo, error)
}
