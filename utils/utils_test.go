package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ops@freightflow.io"))
	assert.True(t, IsValidEmail("  jane.doe+quotes@acme.com  "))

	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("missing@tld"))
	assert.False(t, IsValidEmail("two words@acme.com"))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 20, ParseIntDefault("", 20))
	assert.Equal(t, 20, ParseIntDefault("abc", 20))
	assert.Equal(t, 7, ParseIntDefault("7", 20))
	assert.Equal(t, -3, ParseIntDefault("-3", 20))
}

func TestParseBoolQuery(t *testing.T) {
	b, err := ParseBoolQuery("")
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = ParseBoolQuery("true")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, *b)

	b, err = ParseBoolQuery("false")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.False(t, *b)

	_, err = ParseBoolQuery("maybe")
	assert.Error(t, err)
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ocean Base Rate", "ocean-base-rate"},
		{"Fuel Surcharge (Q3)", "fuel-surcharge-q3"},
		{"Priorité Éléctronique", "priorite-electronique"},
		{"  --Heavy  Cargo--  ", "heavy-cargo"},
		{"100% hazmat fee", "100-hazmat-fee"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerateSlug(tt.in), tt.in)
	}
}

func TestHashToken(t *testing.T) {
	h1 := HashToken("some-refresh-token")
	h2 := HashToken("some-refresh-token")
	h3 := HashToken("another-token")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // hex sha-256
	assert.NotContains(t, h1, "some-refresh-token")
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, CheckPassword(hash, "s3cret-pass"))
	assert.Error(t, CheckPassword(hash, "wrong-pass"))
}
