package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsEmptyCatalog(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestNew_RejectsIdenticalTerms(t *testing.T) {
	_, err := New([]WordPair{{Civilian: "Cat", Undercover: " cat "}})
	require.Error(t, err)
}

func TestNew_CopiesInput(t *testing.T) {
	pairs := []WordPair{{Civilian: "Cat", Undercover: "Lynx"}}

	c, err := New(pairs)
	require.NoError(t, err)

	pairs[0].Civilian = "Dog"
	assert.Equal(t, "Cat", c.At(0).Civilian)
}

func TestDefault_AllPairsDistinct(t *testing.T) {
	c := Default()
	require.Greater(t, c.Len(), 0)

	for i := 0; i < c.Len(); i++ {
		p := c.At(i)
		assert.NotEqual(t, p.Civilian, p.Undercover, "pair %d", i)
	}
}

func TestLoadCSV_SkipsInvalidRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.csv")

	content := "# civilian,undercover\nCoffee,Tea\nlonely\nSame,same\n Moon , Sun \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := LoadCSV(path)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	assert.Equal(t, WordPair{Civilian: "Coffee", Undercover: "Tea"}, c.At(0))
	assert.Equal(t, WordPair{Civilian: "Moon", Undercover: "Sun"}, c.At(1))
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
