// Package domain defines the entities, error taxonomy, and repository contract
// shared by the peopledb service, its storage backends, and the layout
// benchmark.
package domain

import "fmt"

// EntityType identifies the kind of record a query addresses.
type EntityType string

// Supported entity type identifiers used in errors and mapping diagnostics.
const (
	// EntityPerson identifies a person record.
	EntityPerson EntityType = "person"
	// EntityOrganization identifies an organization record.
	EntityOrganization EntityType = "organization"
	// EntityOrganizationCEO identifies the person resolved through an organization's ceo_id.
	EntityOrganizationCEO EntityType = "organization ceo"
)

// Person is a persisted person row. ID is assigned by the store and never
// changes afterwards.
type Person struct {
	ID             int32  `json:"id"`
	Name           string `json:"name"`
	Job            string `json:"job"`
	IsAdult        bool   `json:"is_adult"`
	FavoriteNumber int16  `json:"favorite_number"`
}

// NewPerson carries the insert input for a person.
type NewPerson struct {
	Name           string `json:"name"`
	Job            string `json:"job"`
	IsAdult        bool   `json:"is_adult"`
	FavoriteNumber int16  `json:"favorite_number"`
}

// Fields returns the insert input of an existing person.
func (p Person) Fields() NewPerson {
	return NewPerson{Name: p.Name, Job: p.Job, IsAdult: p.IsAdult, FavoriteNumber: p.FavoriteNumber}
}

// Organization is a persisted organization row. CEOID references Person.ID.
type Organization struct {
	ID      int32  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	CEOID   int32  `json:"ceo_id"`
}

// NewOrganization carries the insert input for an organization.
type NewOrganization struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	CEOID   int32  `json:"ceo_id"`
}

// OrganizationWithCeo is the read-composed view of an organization with its
// CEO materialized. It is built for presentation only and never persisted.
type OrganizationWithCeo struct {
	ID      int32  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	CEO     Person `json:"ceo"`
}

// WithCEO composes the organization with a copy of its resolved CEO.
func (o Organization) WithCEO(ceo Person) OrganizationWithCeo {
	return OrganizationWithCeo{
		ID:      o.ID,
		Name:    o.Name,
		Address: o.Address,
		Phone:   o.Phone,
		CEO:     ceo,
	}
}

// PersonDOD stores people as four parallel columns. Index i across every
// column describes one logical person; the columns always share one length.
type PersonDOD struct {
	Names           []string
	Jobs            []string
	IsAdults        []bool
	FavoriteNumbers []int16
}

// NewPersonDOD allocates empty columns with room for capacity people.
func NewPersonDOD(capacity int) PersonDOD {
	return PersonDOD{
		Names:           make([]string, 0, capacity),
		Jobs:            make([]string, 0, capacity),
		IsAdults:        make([]bool, 0, capacity),
		FavoriteNumbers: make([]int16, 0, capacity),
	}
}

// Append adds one logical person to every column.
func (d *PersonDOD) Append(p NewPerson) {
	d.Names = append(d.Names, p.Name)
	d.Jobs = append(d.Jobs, p.Job)
	d.IsAdults = append(d.IsAdults, p.IsAdult)
	d.FavoriteNumbers = append(d.FavoriteNumbers, p.FavoriteNumber)
}

// Len reports the number of logical people. It panics when the columns have
// drifted apart, which can only happen through a programming error.
func (d PersonDOD) Len() int {
	n := len(d.Names)
	if len(d.Jobs) != n || len(d.IsAdults) != n || len(d.FavoriteNumbers) != n {
		panic(fmt.Sprintf("domain: PersonDOD column lengths diverged: names=%d jobs=%d is_adults=%d favorite_numbers=%d",
			n, len(d.Jobs), len(d.IsAdults), len(d.FavoriteNumbers)))
	}
	return n
}

// At reassembles the logical person stored at index i.
func (d PersonDOD) At(i int) NewPerson {
	return NewPerson{
		Name:           d.Names[i],
		Job:            d.Jobs[i],
		IsAdult:        d.IsAdults[i],
		FavoriteNumber: d.FavoriteNumbers[i],
	}
}
