package ptimg

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageDB(t *testing.T) {
	tmp, err := ioutil.TempDir("", "ptimg")
	require.NoError(t, err)
	defer os.RemoveAll(tmp)

	db, err := NewPageDB(filepath.Join(tmp, "test.db"))
	require.NoError(t, err)
	defer db.Close()

	path, err := db.FindPageBySHA1("da39a3ee5e6b4b0d3255bfef95601890afd80709")
	require.NoError(t, err)
	assert.Equal(t, "", path)

	require.NoError(t, db.AddPage(1, 1, "da39a3ee5e6b4b0d3255bfef95601890afd80709", "1/1.png"))

	path, err = db.FindPageBySHA1("da39a3ee5e6b4b0d3255bfef95601890afd80709")
	require.NoError(t, err)
	assert.Equal(t, "1/1.png", path)

	// The checksum is unique
	assert.Error(t, db.AddPage(2, 1, "da39a3ee5e6b4b0d3255bfef95601890afd80709", "2/1.png"))
}
