package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultsIncludesCSS(t *testing.T) {
	table := Defaults()
	found := false
	for _, e := range table {
		if e.Extension == "css" && e.MIME == "text/css" {
			found = true
		}
	}
	require.True(t, found)
}

func TestDefaultsReturnsIndependentCopies(t *testing.T) {
	a := Defaults()
	a[0].MIME = "mutated"
	b := Defaults()
	require.NotEqual(t, "mutated", b[0].MIME)
}

func TestRegisterAppendsNewExtension(t *testing.T) {
	table := Defaults()
	before := len(table)
	table = Register(table, "json", "application/json")
	require.Len(t, table, before+1)
	require.Equal(t, "application/json", table[before].MIME)
}

func TestRegisterOverwritesExistingExtension(t *testing.T) {
	table := Defaults()
	before := len(table)
	table = Register(table, "css", "text/x-custom-css")

	require.Len(t, table, before)
	for _, e := range table {
		if e.Extension == "css" {
			require.Equal(t, "text/x-custom-css", e.MIME)
		}
	}
}
