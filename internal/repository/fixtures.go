package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"padron-agremiados/internal/model"
)

//go:embed fixtures/agremiados.json
var fixturesJSON []byte

// Fixtures returns the sample members, registered one second apart ending at
// now so that the first fixture is the oldest.
func Fixtures(now time.Time) ([]model.Agremiado, error) {
	var rows []model.Agremiado
	if err := json.Unmarshal(fixturesJSON, &rows); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	for i := range rows {
		rows[i].Stamp(now.Add(-time.Duration(len(rows)-1-i) * time.Second))
		rows[i].RefreshSearchKeys()
	}
	return rows, nil
}

// SeedIfEmpty inserts the fixtures when the store holds no members and
// returns how many rows were written.
func SeedIfEmpty(ctx context.Context, repo AgremiadoRepository, now time.Time) (int, error) {
	total, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	if total > 0 {
		return 0, nil
	}

	rows, err := Fixtures(now)
	if err != nil {
		return 0, err
	}
	for i := range rows {
		if err := repo.Create(ctx, &rows[i]); err != nil {
			return i, fmt.Errorf("seed cop %s: %w", rows[i].Cop, err)
		}
	}
	return len(rows), nil
}
