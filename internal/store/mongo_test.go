package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rolodex/internal/query"
)

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name string
		pred query.Predicate
		want bson.D
	}{
		{"nil", nil, bson.D{}},
		{"empty and", query.And{}, bson.D{}},
		{"empty or", query.Or{}, bson.D{{Key: "$nor", Value: bson.A{bson.D{}}}}},
		{
			name: "case-insensitive match",
			pred: query.Match{Field: query.FieldEmail, Pattern: `a\.b`, CaseInsensitive: true},
			want: bson.D{{Key: "email", Value: primitive.Regex{Pattern: `a\.b`, Options: "i"}}},
		},
		{
			name: "tags match",
			pred: query.Match{Field: query.FieldTags, Pattern: "vip"},
			want: bson.D{{Key: "tags", Value: bson.D{{Key: "$elemMatch", Value: bson.D{{Key: "$regex", Value: primitive.Regex{Pattern: "vip"}}}}}}},
		},
		{
			name: "membership",
			pred: query.In{Field: query.FieldCompany, Values: []string{"Acme", "Globex"}},
			want: bson.D{{Key: "company", Value: bson.D{{Key: "$in", Value: []string{"Acme", "Globex"}}}}},
		},
		{
			name: "and of or",
			pred: query.And{
				query.Or{query.Match{Field: query.FieldFirstName, Pattern: "x", CaseInsensitive: true}},
				query.In{Field: query.FieldTags, Values: []string{"vip"}},
			},
			want: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "$or", Value: bson.A{
					bson.D{{Key: "firstName", Value: primitive.Regex{Pattern: "x", Options: "i"}}},
				}}},
				bson.D{{Key: "tags", Value: bson.D{{Key: "$in", Value: []string{"vip"}}}}},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compileFilter(tt.pred)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortDocument(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}},
		sortDocument(&query.Sort{Field: query.FieldCreatedAt, Desc: true}),
	)
}

func TestContactDocumentRoundTrip(t *testing.T) {
	oid := primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	raw, err := bson.Marshal(contactDocument{ID: oid, FirstName: "Jane", Email: "jane@example.com", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	var doc contactDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))

	c := doc.contact()
	assert.Equal(t, oid.Hex(), c.ID)
	assert.Equal(t, []string{}, c.Tags)
	assert.True(t, now.Equal(c.CreatedAt))
}
