package scopes

import (
	"testing"

	"travl/src/models"
	"travl/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRun(t *testing.T) *gorm.DB {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DryRun: true})
	require.NoError(t, err)
	return db
}

func TestScopes(t *testing.T) {
	db := dryRun(t)

	stmt := db.Model(&models.Booking{}).Scopes(WithID("TRV00000001"), WithConfirmedStatus).Find(&[]models.Booking{}).Statement
	assert.Contains(t, stmt.SQL.String(), "id = $1 AND status = $2")
	assert.Equal(t, []any{"TRV00000001", types.BOOKING_CONFIRMED}, stmt.Vars)

	stmt = db.Model(&models.Booking{}).Scopes(WithGuestEmail("john@test.com")).Find(&[]models.Booking{}).Statement
	assert.Contains(t, stmt.SQL.String(), "id IN (SELECT")
	assert.Contains(t, stmt.SQL.String(), "booking_guests")
	assert.Equal(t, []any{"john@test.com"}, stmt.Vars)
}
