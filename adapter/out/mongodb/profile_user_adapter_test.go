package mongodb

import (
	"testing"
	"time"

	"profile_server/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUserDocument_RoundTrip(t *testing.T) {
	plus2 := time.FixedZone("UTC+2", 2*60*60)
	u := &domain.User{
		ID:        12,
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		BirthDate: time.Date(1990, time.May, 5, 10, 0, 0, 0, plus2),
		Address:   "1 Main st",
	}

	raw, err := bson.Marshal(toDocument(u))
	require.NoError(t, err)

	var decoded userDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	got := decoded.toDomain()

	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.Address, got.Address)
	assert.Empty(t, got.PhoneNumber)
	assert.True(t, u.BirthDate.Equal(got.BirthDate))
	assert.Equal(t, time.UTC, got.BirthDate.Location())
}

func TestUserDocument_OmitsEmptyOptionalFields(t *testing.T) {
	raw, err := bson.Marshal(toDocument(&domain.User{ID: 1, Email: "a@example.com"}))
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))

	assert.NotContains(t, m, "address")
	assert.NotContains(t, m, "phone_number")
	assert.EqualValues(t, 1, m["_id"])
}
