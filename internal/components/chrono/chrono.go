package chrono

import (
	"time"
	_ "time/tzdata"
)

type API interface {
	Now() time.Time
	Location() *time.Location
}

// StandardImpl is the wall clock in the timezone the store operates in.
type StandardImpl struct {
	location *time.Location
}

func NewStandardImpl() (StandardImpl, error) {
	location, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: location}, nil
}

func UTC() StandardImpl {
	return StandardImpl{location: time.UTC}
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardImpl) Location() *time.Location {
	return s.location
}

// FixedImpl always returns the same instant.
type FixedImpl struct {
	Time time.Time
}

func (f FixedImpl) Now() time.Time {
	return f.Time
}

func (f FixedImpl) Location() *time.Location {
	return f.Time.Location()
}
