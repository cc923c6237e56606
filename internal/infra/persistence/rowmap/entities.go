package rowmap

import "peopledb/pkg/domain"

// Person reads the person columns by their declared names.
var Person = New(domain.EntityPerson,
	Int32("id", func(p *domain.Person) *int32 { return &p.ID }),
	String("name", func(p *domain.Person) *string { return &p.Name }),
	String("job", func(p *domain.Person) *string { return &p.Job }),
	Bool("is_adult", func(p *domain.Person) *bool { return &p.IsAdult }),
	Int16("favorite_number", func(p *domain.Person) *int16 { return &p.FavoriteNumber }),
)

// Organization reads the organization columns by their declared names.
var Organization = New(domain.EntityOrganization,
	Int32("id", func(o *domain.Organization) *int32 { return &o.ID }),
	String("name", func(o *domain.Organization) *string { return &o.Name }),
	String("address", func(o *domain.Organization) *string { return &o.Address }),
	String("phone", func(o *domain.Organization) *string { return &o.Phone }),
	Int32("ceo_id", func(o *domain.Organization) *int32 { return &o.CEOID }),
)

// PersonOutputAliases names the output parameters of the person stored
// routines.
var PersonOutputAliases = Aliases{
	"id":              "p_id",
	"name":            "p_name",
	"job":             "p_job",
	"is_adult":        "p_is_adult",
	"favorite_number": "p_favorite_number",
}
