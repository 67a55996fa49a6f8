package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"rolodex/internal/models"
	"rolodex/internal/query"
	rolodex "rolodex/lib"
)

const (
	uniqueViolation    = "23505"
	invalidRegexSyntax = "2201B"
)

const contactColumns = `id, first_name, last_name, email, phone, address, company, title, tags, created_at, updated_at`

const createContactsTable = `
CREATE TABLE IF NOT EXISTS contacts (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	email      TEXT NOT NULL,
	phone      TEXT NOT NULL,
	address    TEXT NOT NULL,
	company    TEXT NOT NULL,
	title      TEXT NOT NULL,
	tags       TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const createEmailIndex = `CREATE UNIQUE INDEX IF NOT EXISTS contacts_email_key ON contacts (lower(email))`

var columns = map[query.Field]string{
	query.FieldFirstName: "first_name",
	query.FieldLastName:  "last_name",
	query.FieldEmail:     "email",
	query.FieldPhone:     "phone",
	query.FieldAddress:   "address",
	query.FieldCompany:   "company",
	query.FieldTitle:     "title",
	query.FieldTags:      "tags",
	query.FieldCreatedAt: "created_at",
	query.FieldUpdatedAt: "updated_at",
}

// contactRow is the table shape of a contact.
type contactRow struct {
	ID        string         `db:"id"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	Email     string         `db:"email"`
	Phone     string         `db:"phone"`
	Address   string         `db:"address"`
	Company   string         `db:"company"`
	Title     string         `db:"title"`
	Tags      pq.StringArray `db:"tags"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func rowFromContact(id string, c *models.Contact) contactRow {
	tags := pq.StringArray(c.Tags)
	if tags == nil {
		tags = pq.StringArray{}
	}
	return contactRow{
		ID:        id,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Company:   c.Company,
		Title:     c.Title,
		Tags:      tags,
	}
}

func (r contactRow) contact() *models.Contact {
	c := &models.Contact{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		Company:   r.Company,
		Title:     r.Title,
		Tags:      []string(r.Tags),
	}
	c.ID = r.ID
	c.CreatedAt = r.CreatedAt
	c.UpdatedAt = r.UpdatedAt
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c
}

// postgresStore keeps contacts in a PostgreSQL table.
type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	where, args, err := compileWhere(pred)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM contacts WHERE "+where, args...); err != nil {
		return 0, translateQueryError("count contacts", pred, err)
	}
	return n, nil
}

func (s *postgresStore) Find(ctx context.Context, pred query.Predicate, sort *query.Sort, skip, limit int) ([]*models.Contact, error) {
	b := &sqlBuilder{}
	where, err := b.where(pred)
	if err != nil {
		return nil, err
	}

	order, err := orderBy(sort)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("SELECT %s FROM contacts WHERE %s ORDER BY %s LIMIT %s OFFSET %s",
		contactColumns, where, order, b.arg(limit), b.arg(skip))

	var rows []contactRow
	if err := s.db.SelectContext(ctx, &rows, q, b.args...); err != nil {
		return nil, translateQueryError("find contacts", pred, err)
	}

	out := make([]*models.Contact, len(rows))
	for i, r := range rows {
		out[i] = r.contact()
	}
	return out, nil
}

func (s *postgresStore) Get(ctx context.Context, id string) (*models.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, rolodex.ErrNotFound
	}

	var row contactRow
	err := s.db.GetContext(ctx, &row, "SELECT "+contactColumns+" FROM contacts WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, rolodex.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return row.contact(), nil
}

func (s *postgresStore) Insert(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	q := `INSERT INTO contacts (first_name, last_name, email, phone, address, company, title, tags)
VALUES (:first_name, :last_name, :email, :phone, :address, :company, :title, :tags)
RETURNING ` + contactColumns

	row, err := s.namedRow(ctx, q, rowFromContact("", c))
	if err != nil {
		return nil, translatePostgresError("insert contact", c, err)
	}
	return row.contact(), nil
}

func (s *postgresStore) Replace(ctx context.Context, id string, c *models.Contact) (*models.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, rolodex.ErrNotFound
	}

	q := `UPDATE contacts SET
	first_name = :first_name,
	last_name = :last_name,
	email = :email,
	phone = :phone,
	address = :address,
	company = :company,
	title = :title,
	tags = :tags,
	updated_at = NOW()
WHERE id = :id
RETURNING ` + contactColumns

	row, err := s.namedRow(ctx, q, rowFromContact(id, c))
	if err != nil {
		return nil, translatePostgresError("replace contact", c, err)
	}
	return row.contact(), nil
}

func (s *postgresStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return rolodex.ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if n == 0 {
		return rolodex.ErrNotFound
	}
	return nil
}

func (s *postgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range []string{createContactsTable, createEmailIndex} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate contacts: %w", err)
		}
	}
	return nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *postgresStore) Close(ctx context.Context) error {
	return s.db.Close()
}

// namedRow runs a named statement expected to return exactly one row.
func (s *postgresStore) namedRow(ctx context.Context, q string, arg contactRow) (contactRow, error) {
	var row contactRow

	rows, err := s.db.NamedQueryContext(ctx, q, arg)
	if err != nil {
		return row, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return row, err
		}
		return row, sql.ErrNoRows
	}
	if err := rows.StructScan(&row); err != nil {
		return row, err
	}
	return row, rows.Err()
}

func translatePostgresError(op string, c *models.Contact, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return rolodex.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return &rolodex.DuplicateKeyError{Field: "email", Value: c.Email, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// translateQueryError reports a pattern Postgres' regex engine rejects as a
// client error. The server does not say which pattern failed, so the first
// regex-mode match is named.
func translateQueryError(op string, pred query.Predicate, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == invalidRegexSyntax {
		if matches := query.RegexMatches(pred); len(matches) > 0 {
			m := matches[0]
			return &rolodex.InvalidPatternError{
				Field:   string(m.Field),
				Label:   m.Field.Label(),
				Pattern: m.Pattern,
				Err:     errors.New(pqErr.Message),
			}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func orderBy(sort *query.Sort) (string, error) {
	if sort == nil {
		return "created_at, id", nil
	}
	col, ok := columns[sort.Field]
	if !ok || sort.Field == query.FieldTags {
		return "", fmt.Errorf("unsortable field %q", sort.Field)
	}
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id", col, dir), nil
}

// compileWhere renders a predicate as a WHERE clause with positional arguments.
func compileWhere(pred query.Predicate) (string, []any, error) {
	b := &sqlBuilder{}
	where, err := b.where(pred)
	return where, b.args, err
}

type sqlBuilder struct {
	args []any
}

func (b *sqlBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *sqlBuilder) where(pred query.Predicate) (string, error) {
	switch p := pred.(type) {
	case nil:
		return "TRUE", nil

	case query.And:
		if len(p) == 0 {
			return "TRUE", nil
		}
		return b.join(p, " AND ")

	case query.Or:
		if len(p) == 0 {
			return "FALSE", nil
		}
		return b.join(p, " OR ")

	case query.Match:
		col, ok := columns[p.Field]
		if !ok {
			return "", fmt.Errorf("unknown field %q", p.Field)
		}
		op := "~"
		if p.CaseInsensitive {
			op = "~*"
		}
		if p.Field == query.FieldTags {
			return fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(tags) AS t(tag) WHERE t.tag %s %s)", op, b.arg(p.Pattern)), nil
		}
		return fmt.Sprintf("%s %s %s", col, op, b.arg(p.Pattern)), nil

	case query.In:
		col, ok := columns[p.Field]
		if !ok {
			return "", fmt.Errorf("unknown field %q", p.Field)
		}
		if p.Field == query.FieldTags {
			return fmt.Sprintf("tags && %s::text[]", b.arg(pq.Array(p.Values))), nil
		}
		return fmt.Sprintf("%s = ANY(%s)", col, b.arg(pq.Array(p.Values))), nil

	default:
		return "", fmt.Errorf("unsupported predicate %T", pred)
	}
}

func (b *sqlBuilder) join(preds []query.Predicate, sep string) (string, error) {
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		s, err := b.where(p)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}
