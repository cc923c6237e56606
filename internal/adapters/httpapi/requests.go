package httpapi

import "peopledb/pkg/domain"

// Request bodies decode into pointer fields so an absent field is told
// apart from its zero value. Every field is required.

type personRequest struct {
	Name           *string `json:"name"`
	Job            *string `json:"job"`
	IsAdult        *bool   `json:"is_adult"`
	FavoriteNumber *int16  `json:"favorite_number"`
}

func (p personRequest) missing() []string {
	var out []string
	if p.Name == nil {
		out = append(out, "name")
	}
	if p.Job == nil {
		out = append(out, "job")
	}
	if p.IsAdult == nil {
		out = append(out, "is_adult")
	}
	if p.FavoriteNumber == nil {
		out = append(out, "favorite_number")
	}
	return out
}

// toDomain must only be called once missing reports nothing.
func (p personRequest) toDomain() domain.NewPerson {
	return domain.NewPerson{Name: *p.Name, Job: *p.Job, IsAdult: *p.IsAdult, FavoriteNumber: *p.FavoriteNumber}
}

type organizationRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	CEOID   *int32  `json:"ceo_id"`
}

func (o organizationRequest) missing() []string {
	var out []string
	if o.Name == nil {
		out = append(out, "name")
	}
	if o.Address == nil {
		out = append(out, "address")
	}
	if o.Phone == nil {
		out = append(out, "phone")
	}
	if o.CEOID == nil {
		out = append(out, "ceo_id")
	}
	return out
}

func (o organizationRequest) toDomain() domain.NewOrganization {
	return domain.NewOrganization{Name: *o.Name, Address: *o.Address, Phone: *o.Phone, CEOID: *o.CEOID}
}
