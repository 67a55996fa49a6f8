package query

import (
	"math"
	"regexp"
)

// Field names a contact attribute a predicate or sort can refer to. Values
// are the JSON names; stores map them onto columns or document keys.
type Field string

const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldEmail     Field = "email"
	FieldPhone     Field = "phone"
	FieldAddress   Field = "address"
	FieldCompany   Field = "company"
	FieldTitle     Field = "title"
	FieldTags      Field = "tags"
	FieldCreatedAt Field = "createdAt"
	FieldUpdatedAt Field = "updatedAt"
)

var labels = map[Field]string{
	FieldFirstName: "first name",
	FieldLastName:  "last name",
	FieldEmail:     "email",
	FieldPhone:     "phone",
	FieldAddress:   "address",
	FieldCompany:   "company",
	FieldTitle:     "title",
	FieldTags:      "tags",
	FieldCreatedAt: "created at",
	FieldUpdatedAt: "updated at",
}

// Label is the field's name as shown in error messages.
func (f Field) Label() string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

// SortableFields lists the fields accepted by the sort parameter.
var SortableFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldAddress,
	FieldCompany,
	FieldTitle,
	FieldCreatedAt,
	FieldUpdatedAt,
}

// Predicate is a backend-neutral filter tree. Stores compile it into SQL,
// BSON or an in-process matcher.
type Predicate interface {
	predicate()
}

// And matches when every child matches. An empty And matches everything.
type And []Predicate

// Or matches when any child matches. An empty Or matches nothing.
type Or []Predicate

// Match is a regular-expression test against a text field. On FieldTags it
// matches when any element matches.
type Match struct {
	Field           Field
	Pattern         string
	CaseInsensitive bool
}

// In tests exact membership in Values. On FieldTags it matches when any
// element of the contact's tags is in Values.
type In struct {
	Field  Field
	Values []string
}

func (And) predicate()   {}
func (Or) predicate()    {}
func (Match) predicate() {}
func (In) predicate()    {}

// Regexp compiles the pattern with the match's case sensitivity.
func (m Match) Regexp() (*regexp.Regexp, error) {
	if m.CaseInsensitive {
		return regexp.Compile("(?i)" + m.Pattern)
	}
	return regexp.Compile(m.Pattern)
}

// RegexMatches returns the case-sensitive matches in pred, depth first. Build
// only emits those for regex-mode filters.
func RegexMatches(pred Predicate) []Match {
	var out []Match
	var walk func(Predicate)
	walk = func(p Predicate) {
		switch p := p.(type) {
		case And:
			for _, c := range p {
				walk(c)
			}
		case Or:
			for _, c := range p {
				walk(c)
			}
		case Match:
			if !p.CaseInsensitive {
				out = append(out, p)
			}
		}
	}
	walk(pred)
	return out
}

// Sort orders results by a single field.
type Sort struct {
	Field Field
	Desc  bool
}

// Query is the output of Build.
type Query struct {
	Predicate Predicate
	// Sort is nil when the caller asked for no particular order.
	Sort  *Sort
	Page  int
	Limit int
}

// Skip is the number of matching records before the requested page. It
// saturates at math.MaxInt instead of overflowing for huge pages.
func (q *Query) Skip() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}
