package activity

import (
	"fmt"
	"time"
)

const (
	MinAgeBound = 0
	MaxAgeBound = 120
)

// Activity is a capacity-bounded scheduled event, optionally gated to an age
// band. Occupancy and availability are always derived from the enrollment
// table, never stored.
type Activity struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	ScheduledAt time.Time `gorm:"not null" json:"scheduled_at"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	MinAge      *int      `json:"min_age,omitempty"`
	MaxAge      *int      `json:"max_age,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsUpcoming reports whether the activity has not started yet.
func (a *Activity) IsUpcoming(now time.Time) bool {
	return a.ScheduledAt.After(now)
}

func (a *Activity) HasAgeRestriction() bool {
	return a.MinAge != nil || a.MaxAge != nil
}

// AgeEligible checks the attendee's age against the activity's age band. Age
// is computed against the year the activity takes place. The returned reason
// is empty when the attendee is eligible.
func (a *Activity) AgeEligible(birthYear int) (bool, string) {
	if !a.HasAgeRestriction() {
		return true, ""
	}

	age := a.ScheduledAt.Year() - birthYear
	if a.MinAge != nil && age < *a.MinAge {
		return false, fmt.Sprintf("la edad mínima es %d años (edad del inscrito: %d)", *a.MinAge, age)
	}
	if a.MaxAge != nil && age > *a.MaxAge {
		return false, fmt.Sprintf("la edad máxima es %d años (edad del inscrito: %d)", *a.MaxAge, age)
	}
	return true, ""
}

// CreateActivityInput carries the fields for creating an activity.
type CreateActivityInput struct {
	Name        string
	Description *string
	ScheduledAt time.Time
	Capacity    int
	MinAge      *int
	MaxAge      *int
}

// UpdateActivityInput carries the fields for editing an activity.
type UpdateActivityInput struct {
	ID          string
	Name        string
	Description *string
	ScheduledAt time.Time
	Capacity    int
	MinAge      *int
	MaxAge      *int
}

// ListFilter narrows activity listings.
type ListFilter struct {
	UpcomingOnly bool
	Search       string
}

// WithOccupancy pairs an activity with its derived occupancy numbers.
type WithOccupancy struct {
	Activity
	Occupancy int `json:"occupancy"`
	Available int `json:"available"`
}
