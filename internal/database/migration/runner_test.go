package migration

import (
	"testing"
	"testing/fstest"

	"profile-hub/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OrdersAndChecksums(t *testing.T) {
	src := fstest.MapFS{
		"V2__add_index.sql":   {Data: []byte("CREATE INDEX x ON t (a);")},
		"V1__init.sql":        {Data: []byte("  CREATE TABLE t (a int);\n")},
		"README.md":           {Data: []byte("ignored")},
		"V3_missing_dash.sql": {Data: []byte("ignored")},
	}

	migs, err := Load(src)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "init", migs[0].Name)
	assert.Equal(t, "CREATE TABLE t (a int);", migs[0].SQL)
	assert.Len(t, migs[0].Checksum, 64)
	assert.Equal(t, int64(2), migs[1].Version)
}

func TestLoad_RejectsDuplicatesAndEmptyFiles(t *testing.T) {
	_, err := Load(fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 2;")},
	})
	assert.ErrorContains(t, err, "duplicate migration version")

	_, err = Load(fstest.MapFS{"V1__a.sql": {Data: []byte("   ")}})
	assert.ErrorContains(t, err, "empty migration file")
}

func TestEmbeddedSchemaLoads(t *testing.T) {
	migs, err := Load(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Contains(t, migs[0].SQL, "CREATE TABLE IF NOT EXISTS users")
}
