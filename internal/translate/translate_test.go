package translate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	for _, code := range []string{"", "auto"} {
		got, err := Resolve(code)
		require.NoError(t, err)
		require.Equal(t, DefaultLocale, got)
	}

	got, err := Resolve("ja-jp")
	require.NoError(t, err)
	require.Equal(t, "ja-jp", got)

	_, err = Resolve("xx-yy")
	require.ErrorIs(t, err, ErrUnknownLocale)
}

func TestTranslatePassthrough(t *testing.T) {
	// The default locale never consults the table, so nil is fine.
	var table Table

	names := []string{"Stale Seabed", "Bubble Dream"}
	for _, locale := range []string{"", "auto", "en-us"} {
		got, err := table.Translate(names, locale)
		require.NoError(t, err)
		require.Equal(t, names, got)
	}
}

func TestTranslateLookup(t *testing.T) {
	table := Table{
		"Stale Seabed": {"ja-jp": "海の底", "de-eu": "Meeresgrund"},
		"Bubble Dream": {"ja-jp": "バブルの夢"},
	}

	got, err := table.Translate([]string{"Stale Seabed", "Bubble Dream"}, "ja-jp")
	require.NoError(t, err)
	require.Equal(t, []string{"海の底", "バブルの夢"}, got)

	// A hole in the table is an error, not a passthrough.
	_, err = table.Translate([]string{"Stale Seabed", "Bubble Dream"}, "de-eu")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Bubble Dream")
}

func TestTranslateUnknownLocale(t *testing.T) {
	_, err := Table{}.Translate([]string{"A"}, "pt-br")
	require.ErrorIs(t, err, ErrUnknownLocale)
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translations.json")
	body := `{"Stale Seabed": {"ja-jp": "海の底"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)

	got, err := table.Translate([]string{"Stale Seabed"}, "ja-jp")
	require.NoError(t, err)
	require.Equal(t, []string{"海の底"}, got)

	_, err = LoadTable(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
