package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	assert.True(t, catalog.Languages.Contains("en"))
	assert.True(t, catalog.Languages.Contains("fr"))
	assert.False(t, catalog.Languages.Contains("xx"))
	assert.Equal(t, "français", catalog.Languages.Name("fr"))

	assert.True(t, catalog.Timezones.Contains("Europe/Paris"))
	assert.True(t, catalog.Timezones.Contains("UTC"))
	assert.False(t, catalog.Timezones.Contains("Mars/Olympus"))
	assert.Greater(t, catalog.Timezones.Len(), 300)

	assert.True(t, catalog.Countries.Contains("FR"))
	assert.Equal(t, "France", catalog.Countries.Name("FR"))
	assert.False(t, catalog.Countries.Contains("fr"))
}

func TestCountriesSortedByName(t *testing.T) {
	countries := Countries("FR", "DE", "AT")
	assert.Equal(t, []string{"AT", "FR", "DE"}, countries.Codes())
	assert.Equal(t, "Austria", countries.Name("AT"))
}

func TestEnumerationKeepsFirstDuplicate(t *testing.T) {
	e := NewEnumeration(Item{Code: "a", Name: "first"}, Item{Code: "b", Name: "b"}, Item{Code: "a", Name: "second"})
	assert.Equal(t, 2, e.Len())
	assert.Equal(t, "first", e.Name("a"))
	assert.Equal(t, []string{"a", "b"}, e.Codes())

	items := e.Items()
	items[0].Name = "mutated"
	assert.Equal(t, "first", e.Name("a"))
}
