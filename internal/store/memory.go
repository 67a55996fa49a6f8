package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"rolodex/internal/models"
	"rolodex/internal/query"
	rolodex "rolodex/lib"
)

// memoryStore keeps contacts in a map. It backs tests and the `memory` driver.
type memoryStore struct {
	mu       sync.RWMutex
	contacts map[string]*models.Contact
	order    []string
	now      func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() Store {
	return &memoryStore{
		contacts: make(map[string]*models.Contact),
		now:      time.Now,
	}
}

func (s *memoryStore) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := s.filter(pred)
	if err != nil {
		return 0, err
	}
	return int64(len(matches)), nil
}

func (s *memoryStore) Find(ctx context.Context, pred query.Predicate, sort *query.Sort, skip, limit int) ([]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := s.filter(pred)
	if err != nil {
		return nil, err
	}

	if sort != nil {
		slices.SortStableFunc(matches, func(a, b *models.Contact) int {
			c := compareField(a, b, sort.Field)
			if sort.Desc {
				return -c
			}
			return c
		})
	}

	if skip < 0 {
		skip = 0
	}
	if skip >= len(matches) {
		return []*models.Contact{}, nil
	}
	matches = matches[skip:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}

	out := make([]*models.Contact, len(matches))
	for i, c := range matches {
		out[i] = c.Clone()
	}
	return out, nil
}

func (s *memoryStore) Get(ctx context.Context, id string) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contacts[id]
	if !ok {
		return nil, rolodex.ErrNotFound
	}
	return c.Clone(), nil
}

func (s *memoryStore) Insert(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEmail("", c.Email); err != nil {
		return nil, err
	}

	stored := c.Clone()
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Time{}
	stored.Stamp(s.now().UTC())

	s.contacts[stored.ID] = stored
	s.order = append(s.order, stored.ID)
	return stored.Clone(), nil
}

func (s *memoryStore) Replace(ctx context.Context, id string, c *models.Contact) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.contacts[id]
	if !ok {
		return nil, rolodex.ErrNotFound
	}
	if err := s.checkEmail(id, c.Email); err != nil {
		return nil, err
	}

	stored := c.Clone()
	stored.ID = id
	stored.CreatedAt = existing.CreatedAt
	stored.Stamp(s.now().UTC())

	s.contacts[id] = stored
	return stored.Clone(), nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contacts[id]; !ok {
		return rolodex.ErrNotFound
	}
	delete(s.contacts, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
	return nil
}

func (s *memoryStore) Migrate(ctx context.Context) error { return nil }

func (s *memoryStore) Ping(ctx context.Context) error { return nil }

func (s *memoryStore) Close(ctx context.Context) error { return nil }

// checkEmail enforces case-insensitive uniqueness, ignoring the record being replaced.
func (s *memoryStore) checkEmail(self, email string) error {
	for id, c := range s.contacts {
		if id != self && strings.EqualFold(c.Email, email) {
			return &rolodex.DuplicateKeyError{Field: "email", Value: email}
		}
	}
	return nil
}

// filter returns matching contacts in insertion order. Callers hold the lock.
func (s *memoryStore) filter(pred query.Predicate) ([]*models.Contact, error) {
	m, err := compileMatcher(pred)
	if err != nil {
		return nil, err
	}

	var out []*models.Contact
	for _, id := range s.order {
		if c := s.contacts[id]; m(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

type matcher func(c *models.Contact) bool

func compileMatcher(pred query.Predicate) (matcher, error) {
	switch p := pred.(type) {
	case nil:
		return func(*models.Contact) bool { return true }, nil

	case query.And:
		children, err := compileMatchers(p)
		if err != nil {
			return nil, err
		}
		return func(c *models.Contact) bool {
			for _, m := range children {
				if !m(c) {
					return false
				}
			}
			return true
		}, nil

	case query.Or:
		children, err := compileMatchers(p)
		if err != nil {
			return nil, err
		}
		return func(c *models.Contact) bool {
			for _, m := range children {
				if m(c) {
					return true
				}
			}
			return false
		}, nil

	case query.Match:
		re, err := p.Regexp()
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern: %w", p.Field, err)
		}
		return func(c *models.Contact) bool {
			return slices.ContainsFunc(fieldValues(c, p.Field), re.MatchString)
		}, nil

	case query.In:
		return func(c *models.Contact) bool {
			return slices.ContainsFunc(fieldValues(c, p.Field), func(v string) bool {
				return slices.Contains(p.Values, v)
			})
		}, nil

	default:
		return nil, fmt.Errorf("unsupported predicate %T", pred)
	}
}

func compileMatchers(preds []query.Predicate) ([]matcher, error) {
	out := make([]matcher, 0, len(preds))
	for _, p := range preds {
		m, err := compileMatcher(p)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func fieldValues(c *models.Contact, f query.Field) []string {
	switch f {
	case query.FieldFirstName:
		return []string{c.FirstName}
	case query.FieldLastName:
		return []string{c.LastName}
	case query.FieldEmail:
		return []string{c.Email}
	case query.FieldPhone:
		return []string{c.Phone}
	case query.FieldAddress:
		return []string{c.Address}
	case query.FieldCompany:
		return []string{c.Company}
	case query.FieldTitle:
		return []string{c.Title}
	case query.FieldTags:
		return c.Tags
	default:
		return nil
	}
}

func compareField(a, b *models.Contact, f query.Field) int {
	switch f {
	case query.FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case query.FieldUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return cmp.Compare(strings.Join(fieldValues(a, f), ","), strings.Join(fieldValues(b, f), ","))
	}
}
