package models

import "time"

// YKSType is the national university entrance exam score category
type YKSType string

const (
	YKSSayisal YKSType = "SAYISAL"
	YKSSozel   YKSType = "SOZEL"
	YKSEA      YKSType = "EA"
	YKSDil     YKSType = "DIL"
)

// IsValid checks whether the value is a known exam category
func (t YKSType) IsValid() bool {
	switch t {
	case YKSSayisal, YKSSozel, YKSEA, YKSDil:
		return true
	}
	return false
}

// YKS score bounds and ranking floor enforced on registration
const (
	YKSScoreMin = 0.0
	YKSScoreMax = 600.0
	RankingMin  = 1
)

// Student represents a prospective student registered during an open day visit
type Student struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        *string
	Phone        *string
	HighSchool   *string
	Ranking      *int64
	YKSScore     *float64
	YKSType      *YKSType
	DepartmentID *int64
	WantsTour    bool
	TourSent     bool
	CreatedByID  *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined display fields, populated by list queries
	DepartmentName *string
	CreatedByName  *string
}
