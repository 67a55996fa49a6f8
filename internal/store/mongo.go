package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"rolodex/internal/models"
	"rolodex/internal/query"
	rolodex "rolodex/lib"
)

const contactsCollection = "contacts"

// contactDocument is the stored shape of a contact.
type contactDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone"`
	Address   string             `bson:"address"`
	Company   string             `bson:"company"`
	Title     string             `bson:"title"`
	Tags      []string           `bson:"tags"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d contactDocument) contact() *models.Contact {
	c := &models.Contact{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Phone:     d.Phone,
		Address:   d.Address,
		Company:   d.Company,
		Title:     d.Title,
		Tags:      d.Tags,
	}
	c.ID = d.ID.Hex()
	c.CreatedAt = d.CreatedAt
	c.UpdatedAt = d.UpdatedAt
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c
}

// userFields are the replaceable fields of a contact.
func userFields(c *models.Contact) bson.D {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return bson.D{
		{Key: "firstName", Value: c.FirstName},
		{Key: "lastName", Value: c.LastName},
		{Key: "email", Value: c.Email},
		{Key: "phone", Value: c.Phone},
		{Key: "address", Value: c.Address},
		{Key: "company", Value: c.Company},
		{Key: "title", Value: c.Title},
		{Key: "tags", Value: tags},
	}
}

// mongoStore keeps contacts in a MongoDB collection.
type mongoStore struct {
	db   *mongo.Database
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoStore uses the contacts collection of db.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{
		db:   db,
		coll: db.Collection(contactsCollection),
		now:  time.Now,
	}
}

func (s *mongoStore) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	filter, err := compileFilter(pred)
	if err != nil {
		return 0, err
	}

	n, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

func (s *mongoStore) Find(ctx context.Context, pred query.Predicate, sort *query.Sort, skip, limit int) ([]*models.Contact, error) {
	filter, err := compileFilter(pred)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSkip(int64(skip)).SetLimit(int64(limit))
	if sort != nil {
		opts.SetSort(sortDocument(sort))
	}

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []contactDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}

	out := make([]*models.Contact, len(docs))
	for i, d := range docs {
		out[i] = d.contact()
	}
	return out, nil
}

func (s *mongoStore) Get(ctx context.Context, id string) (*models.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, rolodex.ErrNotFound
	}

	var doc contactDocument
	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, rolodex.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return doc.contact(), nil
}

func (s *mongoStore) Insert(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	doc := contactDocument{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Company:   c.Company,
		Title:     c.Title,
		Tags:      c.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, translateMongoError("insert contact", c, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.contact(), nil
}

func (s *mongoStore) Replace(ctx context.Context, id string, c *models.Contact) (*models.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, rolodex.ErrNotFound
	}

	set := append(userFields(c), bson.E{Key: "updatedAt", Value: s.now().UTC().Truncate(time.Millisecond)})
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc contactDocument
	err = s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		return nil, translateMongoError("replace contact", c, err)
	}
	return doc.contact(), nil
}

func (s *mongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return rolodex.ErrNotFound
	}

	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if res.DeletedCount == 0 {
		return rolodex.ErrNotFound
	}
	return nil
}

func (s *mongoStore) Migrate(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("contacts_email_key"),
	})
	if err != nil {
		return fmt.Errorf("migrate contacts: %w", err)
	}
	return nil
}

func (s *mongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

func translateMongoError(op string, c *models.Contact, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rolodex.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return &rolodex.DuplicateKeyError{Field: "email", Value: c.Email, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func sortDocument(sort *query.Sort) bson.D {
	dir := 1
	if sort.Desc {
		dir = -1
	}
	return bson.D{
		{Key: string(sort.Field), Value: dir},
		{Key: "_id", Value: 1},
	}
}

// compileFilter renders a predicate as a query document. Document keys are
// the JSON field names.
func compileFilter(pred query.Predicate) (bson.D, error) {
	switch p := pred.(type) {
	case nil:
		return bson.D{}, nil

	case query.And:
		if len(p) == 0 {
			return bson.D{}, nil
		}
		children, err := compileFilters(p)
		if err != nil {
			return nil, err
		}
		return bson.D{{Key: "$and", Value: children}}, nil

	case query.Or:
		if len(p) == 0 {
			// Nothing satisfies an empty disjunction.
			return bson.D{{Key: "$nor", Value: bson.A{bson.D{}}}}, nil
		}
		children, err := compileFilters(p)
		if err != nil {
			return nil, err
		}
		return bson.D{{Key: "$or", Value: children}}, nil

	case query.Match:
		flags := ""
		if p.CaseInsensitive {
			flags = "i"
		}
		re := primitive.Regex{Pattern: p.Pattern, Options: flags}
		if p.Field == query.FieldTags {
			return bson.D{{Key: "tags", Value: bson.D{{Key: "$elemMatch", Value: bson.D{{Key: "$regex", Value: re}}}}}}, nil
		}
		return bson.D{{Key: string(p.Field), Value: re}}, nil

	case query.In:
		return bson.D{{Key: string(p.Field), Value: bson.D{{Key: "$in", Value: p.Values}}}}, nil

	default:
		return nil, fmt.Errorf("unsupported predicate %T", pred)
	}
}

func compileFilters(preds []query.Predicate) (bson.A, error) {
	out := make(bson.A, 0, len(preds))
	for _, p := range preds {
		d, err := compileFilter(p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
