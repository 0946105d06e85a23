package domain

import "time"

// Terms is one version of the terms of service. At most one row is the
// latest; publishing a new version clears the flag on the previous one.
type Terms struct {
	ID        string
	Version   string
	Content   string
	IsLatest  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
