package exprset

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Study is a free-form description of the experiment behind a Set: who ran
// it, where, and what it was about. All fields are optional and carry no
// cross-object invariants.
//
// Study has value semantics. It is copied when bound to a Set and copied
// again by Describe, so a bound record can never be mutated.
type Study struct {
	// Name is the investigator name.
	Name string `json:"name,omitempty"`

	// Lab is the laboratory where the experiment was conducted.
	Lab string `json:"lab,omitempty"`

	// Contact is the contact information for the investigator or lab.
	Contact string `json:"contact,omitempty"`

	// Title is a single-sentence experiment title.
	Title string `json:"title,omitempty"`

	// Abstract describes the experiment.
	Abstract string `json:"abstract,omitempty"`

	// URL points to supplementary material.
	URL string `json:"url,omitempty"`

	// PubMedIDs lists related publications.
	PubMedIDs []string `json:"pubMedIDs,omitempty"`

	// Other holds free-form key/value annotations that fit none of the
	// named fields.
	Other map[string]string `json:"other,omitempty"`
}

// IsZero reports whether no field is set.
func (s Study) IsZero() bool {
	return s.Name == "" &&
		s.Lab == "" &&
		s.Contact == "" &&
		s.Title == "" &&
		s.Abstract == "" &&
		s.URL == "" &&
		len(s.PubMedIDs) == 0 &&
		len(s.Other) == 0
}

// Equal reports whether two records hold the same content.
func (s Study) Equal(other Study) bool {
	return s.Name == other.Name &&
		s.Lab == other.Lab &&
		s.Contact == other.Contact &&
		s.Title == other.Title &&
		s.Abstract == other.Abstract &&
		s.URL == other.URL &&
		slices.Equal(s.PubMedIDs, other.PubMedIDs) &&
		maps.Equal(s.Other, other.Other)
}

// Render returns a human-readable multi-line description listing only the
// fields that are set. A zero record renders as an empty string.
func (s Study) Render() string {
	var sb strings.Builder

	write := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "%s: %s\n", label, value)
		}
	}

	write("Name", s.Name)
	write("Lab", s.Lab)
	write("Contact", s.Contact)
	write("Title", s.Title)
	write("URL", s.URL)

	if len(s.PubMedIDs) > 0 {
		fmt.Fprintf(&sb, "PubMed: %s\n", strings.Join(s.PubMedIDs, ", "))
	}

	write("Abstract", s.Abstract)

	if len(s.Other) > 0 {
		sb.WriteString("Other:\n")
		for _, k := range slices.Sorted(maps.Keys(s.Other)) {
			fmt.Fprintf(&sb, "  %s: %s\n", k, s.Other[k])
		}
	}

	return sb.String()
}

// clone returns a deep copy so shared slices and maps cannot leak between a
// Set and its caller.
func (s Study) clone() Study {
	s.PubMedIDs = slices.Clone(s.PubMedIDs)
	s.Other = maps.Clone(s.Other)
	return s
}
