package database

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB over the postgres dialector.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestLoadSchemaPostgres(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"table_name", "column_name"}).
		AddRow("Users", "ID").
		AddRow("Users", "Email").
		AddRow("centers", "id").
		AddRow("centers", "owner_doctor_id")
	mock.ExpectQuery("SELECT table_name, column_name FROM information_schema.columns WHERE table_schema = 'public'").
		WillReturnRows(rows)

	schema, err := LoadSchema(db)
	require.NoError(t, err)

	// Lookups are case-insensitive; the descriptor lowercases on build.
	assert.True(t, schema.TableExists("users"))
	assert.True(t, schema.TableExists("USERS"))
	assert.True(t, schema.HasColumn("users", "email"))
	assert.True(t, schema.HasColumn("centers", "owner_doctor_id"))
	assert.False(t, schema.HasColumn("centers", "email"))
	assert.False(t, schema.TableExists("appointments"))
	assert.False(t, schema.HasColumn("appointments", "id"))

	assert.Equal(t, []string{"centers", "users"}, schema.Tables())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSchemaPostgresQueryError(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT table_name, column_name FROM information_schema.columns").
		WillReturnError(fmt.Errorf("permission denied for schema information_schema"))

	_, err := LoadSchema(db)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema descriptor")
}

func TestLoadSchemaSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:schema_sqlite?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE users (id TEXT PRIMARY KEY, email TEXT, center_id TEXT)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE specialties (id TEXT PRIMARY KEY, name TEXT)`).Error)

	schema, err := LoadSchema(db)
	require.NoError(t, err)

	assert.True(t, schema.TableExists("users"))
	assert.True(t, schema.HasColumn("users", "center_id"))
	assert.True(t, schema.TableExists("specialties"))
	assert.False(t, schema.TableExists("lab_test_types"))
	assert.NotContains(t, schema.Tables(), "sqlite_sequence")
}
