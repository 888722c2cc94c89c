//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"padron-agremiados/internal/model"
	"padron-agremiados/internal/repository"
	"padron-agremiados/pkg/database"
	pkgerrors "padron-agremiados/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=padron password=padron dbname=padron_test sslmode=disable TimeZone=America/Lima"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect test database: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "get sql.DB: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrations: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// uniqueCop returns a numeric cop unlikely to collide with rows left by other runs.
func uniqueCop() string {
	return fmt.Sprintf("9%011d", time.Now().UnixNano()%100_000_000_000)
}

func createMember(t *testing.T, repo *repository.Repository, cop string) *model.Agremiado {
	t.Helper()
	a := &model.Agremiado{
		Cop:        cop,
		Nombres:    "MARÍA JOSÉ",
		Apellidos:  "ÑAHUI QUISPE",
		Colegio:    model.ColegioVICusco,
		Estado:     model.EstadoActivo,
		Habilitado: model.HabilitadoActivo,
	}
	a.Stamp(time.Now().UTC().Truncate(time.Microsecond))
	if err := repo.Agremiado.Create(context.Background(), a); err != nil {
		t.Fatalf("create member: %v", err)
	}
	t.Cleanup(func() {
		testDB.Where("id = ?", a.ID).Delete(&model.Agremiado{})
	})
	return a
}

// ═══════════════════════════════════════════════════════════
// Test: constraints
// ═══════════════════════════════════════════════════════════

func TestUniqueCop(t *testing.T) {
	repo := repository.NewRepository(testDB)
	a := createMember(t, repo, uniqueCop())

	dup := *a
	dup.ID = 0
	err := repo.Agremiado.Create(context.Background(), &dup)
	if !pkgerrors.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestCheckConstraint_CopDigits(t *testing.T) {
	repo := repository.NewRepository(testDB)
	a := &model.Agremiado{
		Cop:        "12A",
		Nombres:    "X",
		Apellidos:  "Y",
		Colegio:    model.ColegioILima,
		Estado:     model.EstadoActivo,
		Habilitado: model.HabilitadoActivo,
	}
	a.Stamp(time.Now().UTC())
	err := repo.Agremiado.Create(context.Background(), a)
	if err == nil {
		testDB.Where("id = ?", a.ID).Delete(&model.Agremiado{})
		t.Fatal("expected the cop check constraint to reject a non-numeric cop")
	}
	if pkgerrors.IsUniqueViolation(err) {
		t.Fatalf("unexpected unique violation: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: round trip and search
// ═══════════════════════════════════════════════════════════

func TestTimestampsRoundTrip(t *testing.T) {
	repo := repository.NewRepository(testDB)
	a := createMember(t, repo, uniqueCop())

	got, err := repo.Agremiado.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.FechaRegistro.Equal(a.FechaRegistro) {
		t.Fatalf("fecha_registro %v != %v", got.FechaRegistro, a.FechaRegistro)
	}

	next := model.NextUpdate(got.FechaActualizacion, got.FechaActualizacion)
	if err := repo.Agremiado.Update(context.Background(), a.ID, &model.AgremiadoPatch{FechaActualizacion: next}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = repo.Agremiado.GetByID(context.Background(), a.ID)
	if !got.FechaActualizacion.After(a.FechaActualizacion) {
		t.Fatalf("fecha_actualizacion did not advance: %v", got.FechaActualizacion)
	}
}

func TestSearch_AccentInsensitive(t *testing.T) {
	repo := repository.NewRepository(testDB)
	a := createMember(t, repo, uniqueCop())

	for _, q := range []string{"nahui", "ÑAHUI", "maria jose", a.Cop} {
		items, _, err := repo.Agremiado.Search(context.Background(), repository.NewSearchFilter(q), 0, 50)
		if err != nil {
			t.Fatalf("search %q: %v", q, err)
		}
		found := false
		for _, it := range items {
			if it.ID == a.ID {
				found = true
			}
		}
		if !found {
			t.Fatalf("search %q did not return cop %s", q, a.Cop)
		}
	}
}
