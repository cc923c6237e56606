// Package layout measures how record layout affects a bulk mutation: the
// same N people are built and then have favorite_number incremented once as
// an array of structs ([]domain.Person) and as a struct of arrays
// (domain.PersonDOD). The harness is single-threaded and touches no I/O.
package layout

import (
	"errors"
	"fmt"
	"peopledb/pkg/domain"
	"time"

	"github.com/google/uuid"
)

// DefaultN is the record count used when none is configured.
const DefaultN = 100_000_000

const (
	seedName = "Person"
	seedJob  = "Job"
)

// Config controls one harness run.
type Config struct {
	N int
	// Verify keeps both layouts alive after mutation and checks they agree.
	// It roughly doubles peak memory.
	Verify bool
}

// PhaseTimings holds the wall-clock cost of each phase for one layout.
type PhaseTimings struct {
	Construct time.Duration `json:"construct_ns"`
	Mutate    time.Duration `json:"mutate_ns"`
}

// Report is the outcome of one run.
type Report struct {
	ID             string       `json:"id"`
	StartedAt      time.Time    `json:"started_at"`
	Records        int          `json:"records"`
	ArrayOfStructs PhaseTimings `json:"array_of_structs"`
	StructOfArrays PhaseTimings `json:"struct_of_arrays"`
	Verified       bool         `json:"verified"`
}

// ErrLayoutsDiverged reports that the two layouts disagree after mutation.
var ErrLayoutsDiverged = errors.New("layouts diverged")

func seed(i int) domain.NewPerson {
	return domain.NewPerson{
		Name:           seedName,
		Job:            seedJob,
		IsAdult:        i%2 == 0,
		FavoriteNumber: int16(i % 1000),
	}
}

// BuildPeople allocates n people as independent structs.
func BuildPeople(n int) []domain.Person {
	people := make([]domain.Person, n)
	for i := range people {
		s := seed(i)
		people[i] = domain.Person{
			ID:             int32(i),
			Name:           s.Name,
			Job:            s.Job,
			IsAdult:        s.IsAdult,
			FavoriteNumber: s.FavoriteNumber,
		}
	}
	return people
}

// IncrementAll bumps every person's favorite number in place.
func IncrementAll(people []domain.Person) {
	for i := range people {
		people[i].FavoriteNumber++
	}
}

// BuildPersonDOD allocates the same n people as parallel columns.
func BuildPersonDOD(n int) domain.PersonDOD {
	dod := domain.NewPersonDOD(n)
	for i := 0; i < n; i++ {
		dod.Append(seed(i))
	}
	return dod
}

// IncrementDOD bumps every favorite number, touching only that column.
func IncrementDOD(dod *domain.PersonDOD) {
	nums := dod.FavoriteNumbers
	for i := range nums {
		nums[i]++
	}
}

// Equivalent checks that both layouts hold the same logical records and that
// each favorite number is exactly one above its seed.
func Equivalent(people []domain.Person, dod domain.PersonDOD) error {
	if n := dod.Len(); n != len(people) {
		return fmt.Errorf("%w: %d structs vs %d columns", ErrLayoutsDiverged, len(people), n)
	}
	for i, p := range people {
		want := seed(i)
		want.FavoriteNumber++
		if got := p.Fields(); got != want {
			return fmt.Errorf("%w: struct %d is %+v, want %+v", ErrLayoutsDiverged, i, got, want)
		}
		if got := dod.At(i); got != want {
			return fmt.Errorf("%w: column row %d is %+v, want %+v", ErrLayoutsDiverged, i, got, want)
		}
	}
	return nil
}

// Run builds and mutates both layouts and reports the phase timings. A nil
// clock uses time.Now.
func Run(cfg Config, clock func() time.Time) (Report, error) {
	if cfg.N < 0 {
		return Report{}, fmt.Errorf("record count must not be negative, got %d", cfg.N)
	}
	if clock == nil {
		clock = time.Now
	}
	report := Report{ID: uuid.NewString(), StartedAt: clock().UTC(), Records: cfg.N}
	elapsed := func(fn func()) time.Duration {
		start := clock()
		fn()
		return clock().Sub(start)
	}

	var people []domain.Person
	report.ArrayOfStructs.Construct = elapsed(func() { people = BuildPeople(cfg.N) })
	report.ArrayOfStructs.Mutate = elapsed(func() { IncrementAll(people) })
	if !cfg.Verify {
		people = nil
	}

	var dod domain.PersonDOD
	report.StructOfArrays.Construct = elapsed(func() { dod = BuildPersonDOD(cfg.N) })
	report.StructOfArrays.Mutate = elapsed(func() { IncrementDOD(&dod) })

	if cfg.Verify {
		if err := Equivalent(people, dod); err != nil {
			return report, err
		}
		report.Verified = true
	}
	return report, nil
}
