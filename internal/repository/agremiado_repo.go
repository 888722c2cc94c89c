package repository

import (
	"context"

	"gorm.io/gorm"

	"padron-agremiados/internal/model"
	pkgerrors "padron-agremiados/pkg/errors"
)

// AgremiadoRepository member data access
type AgremiadoRepository interface {
	Create(ctx context.Context, a *model.Agremiado) error
	GetByID(ctx context.Context, id int64) (*model.Agremiado, error)
	List(ctx context.Context, offset, limit int) ([]model.Agremiado, int64, error)
	Search(ctx context.Context, filter SearchFilter, offset, limit int) ([]model.Agremiado, int64, error)
	// Update writes the patch; pkgerrors.ErrNotFound when no row has id.
	Update(ctx context.Context, id int64, patch *model.AgremiadoPatch) error
	// Delete hard-deletes; pkgerrors.ErrNotFound when no row has id.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// agremiadoRepo GORM implementation of AgremiadoRepository
type agremiadoRepo struct {
	db *gorm.DB
}

// NewAgremiadoRepo creates the GORM AgremiadoRepository
func NewAgremiadoRepo(db *gorm.DB) AgremiadoRepository {
	return &agremiadoRepo{db: db}
}

func (r *agremiadoRepo) Create(ctx context.Context, a *model.Agremiado) error {
	a.RefreshSearchKeys()
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *agremiadoRepo) GetByID(ctx context.Context, id int64) (*model.Agremiado, error) {
	var a model.Agremiado
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *agremiadoRepo) List(ctx context.Context, offset, limit int) ([]model.Agremiado, int64, error) {
	return r.page(ctx, func(db *gorm.DB) *gorm.DB { return db }, offset, limit)
}

func (r *agremiadoRepo) Search(ctx context.Context, f SearchFilter, offset, limit int) ([]model.Agremiado, int64, error) {
	if f.IsEmpty() {
		return r.List(ctx, offset, limit)
	}

	where := "cop LIKE @text ESCAPE '" + likeEscape + "'" +
		" OR UPPER(nombres) LIKE @upper ESCAPE '" + likeEscape + "'" +
		" OR UPPER(apellidos) LIKE @upper ESCAPE '" + likeEscape + "'" +
		" OR nombres_busqueda LIKE @folded ESCAPE '" + likeEscape + "'" +
		" OR apellidos_busqueda LIKE @folded ESCAPE '" + likeEscape + "'"
	args := map[string]interface{}{
		"text":   containsPattern(f.Text),
		"upper":  containsPattern(f.Upper),
		"folded": containsPattern(f.Folded),
	}
	if f.Colegio != "" {
		where += " OR ('_' || colegio || '_') LIKE @colegio ESCAPE '" + likeEscape + "'"
		args["colegio"] = f.colegioPattern()
	}
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where(where, args)
	}
	return r.page(ctx, scope, offset, limit)
}

// page runs the count and the page query separately; the two are not wrapped
// in a transaction.
func (r *agremiadoRepo) page(ctx context.Context, scope func(*gorm.DB) *gorm.DB, offset, limit int) ([]model.Agremiado, int64, error) {
	if offset < 0 {
		offset = 0
	}
	var total int64
	if err := scope(r.db.WithContext(ctx).Model(&model.Agremiado{})).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]model.Agremiado, 0, limit)
	if err := scope(r.db.WithContext(ctx).Model(&model.Agremiado{})).
		Order("fecha_registro DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *agremiadoRepo) Update(ctx context.Context, id int64, patch *model.AgremiadoPatch) error {
	res := r.db.WithContext(ctx).
		Model(&model.Agremiado{}).
		Where("id = ?", id).
		Updates(patch.Columns())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (r *agremiadoRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Agremiado{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (r *agremiadoRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Agremiado{}).Count(&total).Error
	return total, err
}

func (r *agremiadoRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
