// Package schema declares the entity and relation types the downstream
// extractor is instructed to recognize, and renders them for prompt templating.
package schema

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EntityType is a named category, optionally split into subcategories.
type EntityType struct {
	Name          string   `yaml:"name"`
	Subcategories []string `yaml:"subcategories,omitempty"`
}

// RelationType is a named predicate between two extracted entities.
type RelationType struct {
	Name string `yaml:"name"`
}

// Schema is the full declaration installed into the extraction prompt.
type Schema struct {
	Entities  []EntityType   `yaml:"entities"`
	Relations []RelationType `yaml:"relations"`
}

// Entity declares an EntityType.
func Entity(name string, subcategories ...string) EntityType {
	return EntityType{Name: name, Subcategories: subcategories}
}

// Relation declares a RelationType.
func Relation(name string) RelationType {
	return RelationType{Name: name}
}

// FormatEntityTypes renders one line per entity type as "NAME: [SUB1, SUB2]".
// Types without subcategories render an empty listing. Order and duplicates are kept.
func FormatEntityTypes(entities []EntityType) string {
	lines := make([]string, len(entities))
	for i, e := range entities {
		lines[i] = fmt.Sprintf("%s: [%s]", e.Name, strings.Join(e.Subcategories, ", "))
	}
	return strings.Join(lines, "\n")
}

// FormatRelations renders one relation name per line.
func FormatRelations(relations []RelationType) string {
	lines := make([]string, len(relations))
	for i, r := range relations {
		lines[i] = r.Name
	}
	return strings.Join(lines, "\n")
}

// Validate checks that every declared name is non-empty.
func (s Schema) Validate() error {
	var errs []error
	for i, e := range s.Entities {
		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, fmt.Errorf("entity type %d: empty name", i))
		}
	}
	for i, r := range s.Relations {
		if strings.TrimSpace(r.Name) == "" {
			errs = append(errs, fmt.Errorf("relation type %d: empty name", i))
		}
	}
	return errors.Join(errs...)
}

// LoadFile reads a YAML schema declaration.
func LoadFile(path string) (Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("read schema %s: %w", path, err)
	}
	var s Schema
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Schema{}, fmt.Errorf("parse schema %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}

// Default is the organization-directory schema: companies, founders, funding and products.
func Default() Schema {
	return Schema{
		Entities: []EntityType{
			Entity("ORGANIZATION", "COMPANY", "SCHOOL", "NON-PROFIT", "OTHER"),
			Entity("LOCATION", "CITY", "STATE", "COUNTRY", "OTHER"),
			Entity("PERSON"),
			Entity("POSITION"),
			Entity("DATE", "YEAR", "MONTH", "DAY", "BATCH (E.G. W24, S20)", "OTHER"),
			Entity("QUANTITY"),
			Entity("EVENT", "INCORPORATION", "FUNDING_ROUND", "ACQUISITION", "LAUNCH", "OTHER"),
			Entity("INDUSTRY"),
			Entity("MEDIA", "EMAIL", "WEBSITE", "TWITTER", "LINKEDIN", "OTHER"),
			Entity("PRODUCT"),
		},
		Relations: []RelationType{
			// founders
			Relation("EDUCATED_AT"),
			Relation("WORKED_AT"),
			Relation("FOUNDED"),
			// companies
			Relation("RAISED"),
			Relation("REVENUE"),
			Relation("TEAM_SIZE"),
			Relation("LOCATION"),
			Relation("ACQUIRED_BY"),
			Relation("ANNOUNCED"),
			Relation("INDUSTRY"),
			// products
			Relation("PRODUCT"),
			Relation("FEATURES"),
			Relation("USES"),
			Relation("USED_BY"),
			Relation("TECHNOLOGY"),
			Relation("HAS"),
			Relation("AS_OF"),
			Relation("PARTICIPATED"),
			Relation("ASSOCIATED"),
			Relation("GROUP_PARTNER"),
			Relation("ALIAS"),
		},
	}
}
