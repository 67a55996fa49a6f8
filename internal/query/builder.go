package query

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	rolodex "rolodex/lib"
)

// Limits are optional hardening knobs. Zero disables each one.
type Limits struct {
	MaxLimit         int
	MaxPatternLength int
}

var searchFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldCompany,
	FieldTitle,
	FieldTags,
}

// Build turns listing parameters into a Query. Every supplied parameter adds
// one clause and the clauses are ANDed. Regex-mode patterns are compiled here
// so an invalid one fails before any storage call.
func Build(p ListParams, lim Limits) (*Query, error) {
	clauses := And{}

	if p.Search != "" {
		literal := regexp.QuoteMeta(p.Search)
		search := make(Or, 0, len(searchFields))
		for _, f := range searchFields {
			search = append(search, Match{Field: f, Pattern: literal, CaseInsensitive: true})
		}
		clauses = append(clauses, search)
	}

	filters := []struct {
		field  Field
		filter FieldFilter
	}{
		{FieldFirstName, p.FirstName},
		{FieldLastName, p.LastName},
		{FieldPhone, p.Phone},
		{FieldEmail, p.Email},
	}
	for _, f := range filters {
		if f.filter.Value == "" {
			continue
		}
		m, err := fieldMatch(f.field, f.filter, lim)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, m)
	}

	if len(p.Companies) > 0 {
		clauses = append(clauses, In{Field: FieldCompany, Values: p.Companies})
	}
	if len(p.Titles) > 0 {
		clauses = append(clauses, In{Field: FieldTitle, Values: p.Titles})
	}
	if len(p.Tags) > 0 {
		clauses = append(clauses, In{Field: FieldTags, Values: p.Tags})
	}

	sort, err := parseSort(p.Sort)
	if err != nil {
		return nil, err
	}

	page, limit := p.Page, p.Limit
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if lim.MaxLimit > 0 && limit > lim.MaxLimit {
		limit = lim.MaxLimit
	}

	return &Query{
		Predicate: clauses,
		Sort:      sort,
		Page:      page,
		Limit:     limit,
	}, nil
}

func fieldMatch(field Field, f FieldFilter, lim Limits) (Match, error) {
	if !f.Regex {
		return Match{Field: field, Pattern: regexp.QuoteMeta(f.Value), CaseInsensitive: true}, nil
	}

	if lim.MaxPatternLength > 0 && len(f.Value) > lim.MaxPatternLength {
		return Match{}, &rolodex.InvalidPatternError{
			Field:   string(field),
			Label:   field.Label(),
			Pattern: f.Value,
			Err:     fmt.Errorf("pattern longer than %d characters", lim.MaxPatternLength),
		}
	}
	if _, err := regexp.Compile(f.Value); err != nil {
		return Match{}, &rolodex.InvalidPatternError{
			Field:   string(field),
			Label:   field.Label(),
			Pattern: f.Value,
			Err:     err,
		}
	}
	return Match{Field: field, Pattern: f.Value}, nil
}

// parseSort reads `field:direction`. Direction is ascending unless it is "desc".
func parseSort(s string) (*Sort, error) {
	if s == "" {
		return nil, nil
	}

	name, dir, _ := strings.Cut(s, ":")
	field := Field(strings.TrimSpace(name))
	if !slices.Contains(SortableFields, field) {
		return nil, &rolodex.BadRequestError{
			Message: "Invalid sort field",
			Details: fmt.Sprintf("%q is not sortable", name),
		}
	}

	return &Sort{
		Field: field,
		Desc:  strings.EqualFold(strings.TrimSpace(dir), "desc"),
	}, nil
}
