package query_test

import (
	"errors"
	"testing"

	"github.com/deppfellow/datagate/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidIdentifier_Accepts(t *testing.T) {
	for _, name := range []string{
		"status",
		"user_id",
		"Email",
		"_private",
		"col2",
		"123",
		"UPPER_and_lower_09",
	} {
		assert.True(t, query.IsValidIdentifier(name), "expected %q to be accepted", name)
	}
}

func TestIsValidIdentifier_Rejects(t *testing.T) {
	for _, name := range []string{
		"",
		" ",
		"first name",
		"name'",
		`"name"`,
		"name;",
		"1;DROP TABLE users",
		"name--",
		"users.name",
		"name=1",
		"a-b",
		"(name)",
		"name\n",
		"naïve",
		"名前",
		"name\x00",
	} {
		assert.False(t, query.IsValidIdentifier(name), "expected %q to be rejected", name)
	}
}

func TestParseColumn(t *testing.T) {
	column, err := query.ParseColumn("email")
	require.NoError(t, err)
	assert.Equal(t, "email", column.String())

	_, err = query.ParseColumn("1;DROP TABLE users")
	require.Error(t, err)
	assert.True(t, errors.Is(err, query.ErrInvalidFieldName))
	assert.False(t, errors.Is(err, query.ErrInvalidOrderColumn))

	var fieldErr *query.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "1;DROP TABLE users", fieldErr.Field)
	assert.Equal(t, "invalid field name: 1;DROP TABLE users", err.Error())
}

func TestParseOrderColumn(t *testing.T) {
	_, err := query.ParseOrderColumn("name desc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, query.ErrInvalidOrderColumn))
	assert.False(t, errors.Is(err, query.ErrInvalidFieldName))
}
