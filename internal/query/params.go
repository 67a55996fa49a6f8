package query

import (
	"net/url"
	"strconv"
)

// Paging defaults applied when page or limit is missing or unusable.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// FieldFilter is a per-field filter. With Regex off, Value is matched as a
// literal case-insensitive substring.
type FieldFilter struct {
	Value string
	Regex bool
}

// ListParams is the typed form of the listing query string.
type ListParams struct {
	Search string

	FirstName FieldFilter
	LastName  FieldFilter
	Phone     FieldFilter
	Email     FieldFilter

	Companies []string
	Titles    []string
	Tags      []string

	Sort  string
	Page  int
	Limit int
}

// ParseListParams reads listing parameters from a query string. Page and
// limit fall back to their defaults when missing, non-numeric or not positive.
func ParseListParams(v url.Values) ListParams {
	return ListParams{
		Search: v.Get("search"),

		FirstName: fieldFilter(v, "firstName", "firstNameRegex"),
		LastName:  fieldFilter(v, "lastName", "lastNameRegex"),
		Phone:     fieldFilter(v, "phone", "phoneRegex"),
		Email:     fieldFilter(v, "emailFilter", "emailRegex"),

		Companies: multi(v, "companyFilter"),
		Titles:    multi(v, "titleFilter"),
		Tags:      multi(v, "tagsFilter"),

		Sort:  v.Get("sort"),
		Page:  positive(v.Get("page"), DefaultPage),
		Limit: positive(v.Get("limit"), DefaultLimit),
	}
}

// Regex mode only turns on for the literal string "true".
func fieldFilter(v url.Values, key, regexKey string) FieldFilter {
	return FieldFilter{
		Value: v.Get(key),
		Regex: v.Get(regexKey) == "true",
	}
}

// multi accepts both `key=a&key=b` and `key[]=a&key[]=b`.
func multi(v url.Values, key string) []string {
	var out []string
	for _, k := range []string{key, key + "[]"} {
		for _, s := range v[k] {
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func positive(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
