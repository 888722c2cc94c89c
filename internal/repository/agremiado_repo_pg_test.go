package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"padron-agremiados/internal/model"
	pkgerrors "padron-agremiados/pkg/errors"
)

// setupPostgresMock wires the GORM postgres dialect to sqlmock so driver
// errors can be injected.
func setupPostgresMock(t *testing.T) (AgremiadoRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return NewAgremiadoRepo(db), mock
}

func TestAgremiadoRepo_Postgres_UniqueViolation(t *testing.T) {
	repo, mock := setupPostgresMock(t)

	mock.ExpectQuery(`INSERT INTO "agremiados"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_agremiados_cop"})

	err := repo.Create(context.Background(), newAgremiado("0100", time.Now().UTC()))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsUniqueViolation(err), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgremiadoRepo_Postgres_OtherErrorsPassThrough(t *testing.T) {
	repo, mock := setupPostgresMock(t)

	mock.ExpectQuery(`INSERT INTO "agremiados"`).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "agremiados_estado_check"})

	err := repo.Create(context.Background(), newAgremiado("0100", time.Now().UTC()))
	require.Error(t, err)
	assert.False(t, pkgerrors.IsUniqueViolation(err))
	assert.False(t, pkgerrors.IsNotFound(err))
}

func TestAgremiadoRepo_Postgres_DeleteMissing(t *testing.T) {
	repo, mock := setupPostgresMock(t)

	mock.ExpectExec(`DELETE FROM "agremiados"`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 42)
	assert.True(t, pkgerrors.IsNotFound(err), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgremiadoRepo_Postgres_UpdateMissing(t *testing.T) {
	repo, mock := setupPostgresMock(t)

	mock.ExpectExec(`UPDATE "agremiados" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	estado := model.EstadoInactivo
	err := repo.Update(context.Background(), 7, &model.AgremiadoPatch{
		Estado:             &estado,
		FechaActualizacion: time.Now().UTC(),
	})
	assert.True(t, pkgerrors.IsNotFound(err), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
