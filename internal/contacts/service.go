package contacts

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"rolodex/internal/models"
	"rolodex/internal/query"
	"rolodex/internal/store"
	rolodex "rolodex/lib"
	"rolodex/lib/cache"
)

// Page is one page of a contact listing.
type Page struct {
	Contacts    []*models.Contact `json:"contacts"`
	TotalCount  int64             `json:"totalCount"`
	CurrentPage int               `json:"currentPage"`
}

// Service holds the contact business logic. Every successful write clears
// the injected cache.
type Service struct {
	store    store.Store
	cache    cache.Cache
	validate rolodex.Validate
	log      rolodex.Logger
	limits   query.Limits
	tracer   trace.Tracer
}

// NewService creates a contact service over a store and cache.
func NewService(l rolodex.Logger, s store.Store, c cache.Cache, limits query.Limits) *Service {
	return &Service{
		store:    s,
		cache:    c,
		validate: rolodex.NewValidate(),
		log:      l.With(zap.String("component", "contacts")),
		limits:   limits,
		tracer:   otel.Tracer("rolodex/contacts"),
	}
}

// List counts the matching contacts and, if there are any, fetches the requested page.
func (s *Service) List(ctx context.Context, p query.ListParams) (*Page, error) {
	ctx, span := s.tracer.Start(ctx, "contacts.List")
	defer span.End()

	q, err := query.Build(p, s.limits)
	if err != nil {
		return nil, fail(span, err)
	}

	total, err := s.store.Count(ctx, q.Predicate)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(
		attribute.Int64("contacts.total", total),
		attribute.Int("contacts.page", q.Page),
		attribute.Int("contacts.limit", q.Limit),
	)

	page := &Page{
		Contacts:    []*models.Contact{},
		TotalCount:  total,
		CurrentPage: q.Page,
	}
	if total == 0 {
		return page, nil
	}

	found, err := s.store.Find(ctx, q.Predicate, q.Sort, q.Skip(), q.Limit)
	if err != nil {
		return nil, fail(span, err)
	}
	page.Contacts = append(page.Contacts, found...)
	return page, nil
}

// Get returns a contact by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Contact, error) {
	ctx, span := s.tracer.Start(ctx, "contacts.Get", trace.WithAttributes(attribute.String("contact.id", id)))
	defer span.End()

	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	return c, nil
}

// Create normalizes, validates and stores a new contact.
func (s *Service) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	ctx, span := s.tracer.Start(ctx, "contacts.Create")
	defer span.End()

	c.Normalize()
	if err := s.validate.IsValid(c); err != nil {
		return nil, fail(span, err)
	}

	created, err := s.store.Insert(ctx, c)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.String("contact.id", created.ID))

	s.invalidate(ctx)
	return created, nil
}

// Replace overwrites every user field of an existing contact.
func (s *Service) Replace(ctx context.Context, id string, c *models.Contact) (*models.Contact, error) {
	ctx, span := s.tracer.Start(ctx, "contacts.Replace", trace.WithAttributes(attribute.String("contact.id", id)))
	defer span.End()

	c.Normalize()
	if err := s.validate.IsValid(c); err != nil {
		return nil, fail(span, err)
	}

	updated, err := s.store.Replace(ctx, id, c)
	if err != nil {
		return nil, fail(span, err)
	}

	s.invalidate(ctx)
	return updated, nil
}

// Delete removes a contact.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "contacts.Delete", trace.WithAttributes(attribute.String("contact.id", id)))
	defer span.End()

	if err := s.store.Delete(ctx, id); err != nil {
		return fail(span, err)
	}

	s.invalidate(ctx)
	return nil
}

// invalidate clears the cache after a committed write. A failure is logged
// and never reported to the caller.
func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Clear(ctx); err != nil {
		s.log.Error("Failed to clear cache", zap.Error(err))
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
