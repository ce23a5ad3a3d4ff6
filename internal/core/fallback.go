package core

import (
	"slices"

	"github.com/google/uuid"
)

// fallbackNamespace seeds the deterministic IDs of the built-in roster so the
// same member keeps the same ID across fallback passes.
var fallbackNamespace = uuid.MustParse("6f1c2b7e-3a52-4c1e-9a7e-2f0d5b8c4e11")

var fallbackCatalog = []string{"Staff", "Marketing", "Interns"}

var fallbackSeed = []TeamMember{
	{
		Name:          "Sarah Johnson",
		Email:         "sarah.johnson@company.com",
		ContactNumber: "+1-555-0123",
		Position:      "Senior Counselor",
		Department:    "Student Services",
		Location:      "New York",
		JoinDate:      "2022-01-15",
		Status:        StatusActive,
		Skills:        "Student Counseling, Application Review",
		Experience:    "5 years",
		SourceName:    "Staff",
	},
	{
		Name:          "Michael Chen",
		Email:         "michael.chen@company.com",
		ContactNumber: "+1-555-0124",
		Position:      "Application Specialist",
		Department:    "Admissions",
		Location:      "California",
		JoinDate:      "2023-03-20",
		Status:        StatusActive,
		Skills:        "Document Review, University Relations",
		Experience:    "3 years",
		SourceName:    "Staff",
	},
	{
		Name:          "Emily Rodriguez",
		Email:         "emily.rodriguez@company.com",
		ContactNumber: "+1-555-0125",
		Position:      "Marketing Manager",
		Department:    "Marketing",
		Location:      "Texas",
		JoinDate:      "2021-11-10",
		Status:        StatusActive,
		Skills:        "Digital Marketing, Content Creation",
		Experience:    "7 years",
		SourceName:    "Marketing",
	},
}

// FallbackProvider supplies the built-in roster used when live data is
// unavailable or no credential is configured.
type FallbackProvider struct{}

// Roster returns a fresh copy of the seed roster with stable IDs.
func (FallbackProvider) Roster() []TeamMember {
	members := slices.Clone(fallbackSeed)
	for i := range members {
		members[i].ID = uuid.NewSHA1(fallbackNamespace, []byte(members[i].SourceName+"/"+members[i].Email)).String()
	}
	return members
}

// Catalog returns a fresh copy of the built-in source list.
func (FallbackProvider) Catalog() []string {
	return slices.Clone(fallbackCatalog)
}
