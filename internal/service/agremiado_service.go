package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"padron-agremiados/internal/dto"
	"padron-agremiados/internal/model"
	"padron-agremiados/internal/repository"
	pkgerrors "padron-agremiados/pkg/errors"
	"padron-agremiados/pkg/metrics"
)

// ── Member errors ──

var (
	ErrAgremiadoNotFound = errors.New("el agremiado no fue encontrado")
	ErrCopDuplicado      = errors.New("este número COP ya está registrado")
	ErrCopInmutable      = errors.New("el número COP no puede modificarse")
)

// AgremiadoService member business interface
type AgremiadoService interface {
	Create(ctx context.Context, req *dto.CreateAgremiadoRequest) (*dto.AgremiadoResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.AgremiadoResponse, error)
	List(ctx context.Context, q *dto.AgremiadoQuery) (*dto.AgremiadoPage, error)
	Search(ctx context.Context, q *dto.AgremiadoQuery) (*dto.AgremiadoPage, error)
	Update(ctx context.Context, id int64, req *dto.UpdateAgremiadoRequest) (*dto.AgremiadoResponse, error)
	Delete(ctx context.Context, id int64) error
}

type agremiadoService struct {
	repo    *repository.Repository
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewAgremiadoService creates the AgremiadoService. m may be nil.
func NewAgremiadoService(repo *repository.Repository, logger *zap.Logger, m *metrics.Metrics) AgremiadoService {
	return &agremiadoService{repo: repo, logger: logger, metrics: m, now: time.Now}
}

func (s *agremiadoService) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// ────────────────────── Create ──────────────────────

func (s *agremiadoService) Create(ctx context.Context, req *dto.CreateAgremiadoRequest) (*dto.AgremiadoResponse, error) {
	req.ApplyDefaults()

	a := &model.Agremiado{
		Cop:        string(req.Cop),
		Nombres:    string(req.Nombres),
		Apellidos:  string(req.Apellidos),
		Colegio:    req.Colegio,
		Estado:     req.Estado,
		Habilitado: req.Habilitado,
	}
	a.Stamp(s.clock())

	if err := s.repo.Agremiado.Create(ctx, a); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			s.metrics.IncMutation("create", "conflict")
			return nil, ErrCopDuplicado
		}
		s.metrics.IncMutation("create", "error")
		s.logger.Error("failed to create member", zap.String("cop", a.Cop), zap.Error(err))
		return nil, err
	}

	s.metrics.IncMutation("create", "ok")
	return toAgremiadoResponse(a), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *agremiadoService) GetByID(ctx context.Context, id int64) (*dto.AgremiadoResponse, error) {
	a, err := s.repo.Agremiado.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrAgremiadoNotFound
		}
		s.logger.Error("failed to load member", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toAgremiadoResponse(a), nil
}

// ────────────────────── List / Search ──────────────────────

// List pages through every member, newest registration first. A non-empty
// q narrows the listing exactly like Search.
func (s *agremiadoService) List(ctx context.Context, q *dto.AgremiadoQuery) (*dto.AgremiadoPage, error) {
	if q.Q != "" {
		return s.Search(ctx, q)
	}

	items, total, err := s.repo.Agremiado.List(ctx, q.Offset(), q.Limit)
	if err != nil {
		s.logger.Error("failed to list members", zap.Int("page", q.Page), zap.Int("limit", q.Limit), zap.Error(err))
		return nil, err
	}
	return toAgremiadoPage(items, total, q), nil
}

func (s *agremiadoService) Search(ctx context.Context, q *dto.AgremiadoQuery) (*dto.AgremiadoPage, error) {
	filter := repository.NewSearchFilter(q.Q)

	items, total, err := s.repo.Agremiado.Search(ctx, filter, q.Offset(), q.Limit)
	if err != nil {
		s.logger.Error("failed to search members", zap.String("q", q.Q), zap.Error(err))
		return nil, err
	}
	return toAgremiadoPage(items, total, q), nil
}

// ────────────────────── Update ──────────────────────

func (s *agremiadoService) Update(ctx context.Context, id int64, req *dto.UpdateAgremiadoRequest) (*dto.AgremiadoResponse, error) {
	current, err := s.repo.Agremiado.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrAgremiadoNotFound
		}
		s.logger.Error("failed to load member", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	// cop is immutable; resending the stored value is accepted
	if req.Cop != nil && string(*req.Cop) != current.Cop {
		s.metrics.IncMutation("update", "invalid")
		return nil, ErrCopInmutable
	}

	patch := &model.AgremiadoPatch{
		Colegio:            req.Colegio,
		Estado:             req.Estado,
		Habilitado:         req.Habilitado,
		FechaActualizacion: model.NextUpdate(current.FechaActualizacion, s.clock()),
	}
	if req.Nombres != nil {
		v := string(*req.Nombres)
		patch.Nombres = &v
	}
	if req.Apellidos != nil {
		v := string(*req.Apellidos)
		patch.Apellidos = &v
	}

	if err := s.repo.Agremiado.Update(ctx, id, patch); err != nil {
		if pkgerrors.IsNotFound(err) {
			s.metrics.IncMutation("update", "not_found")
			return nil, ErrAgremiadoNotFound
		}
		s.metrics.IncMutation("update", "error")
		s.logger.Error("failed to update member", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	patch.Apply(current)
	s.metrics.IncMutation("update", "ok")
	return toAgremiadoResponse(current), nil
}

// ────────────────────── Delete ──────────────────────

func (s *agremiadoService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Agremiado.Delete(ctx, id); err != nil {
		if pkgerrors.IsNotFound(err) {
			s.metrics.IncMutation("delete", "not_found")
			return ErrAgremiadoNotFound
		}
		s.metrics.IncMutation("delete", "error")
		s.logger.Error("failed to delete member", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.metrics.IncMutation("delete", "ok")
	return nil
}

// ── helpers ──

func toAgremiadoResponse(a *model.Agremiado) *dto.AgremiadoResponse {
	return &dto.AgremiadoResponse{
		ID:                 a.ID,
		Cop:                a.Cop,
		Nombres:            a.Nombres,
		Apellidos:          a.Apellidos,
		Colegio:            a.Colegio,
		Estado:             a.Estado,
		Habilitado:         a.Habilitado,
		FechaRegistro:      a.FechaRegistro,
		FechaActualizacion: a.FechaActualizacion,
	}
}

func toAgremiadoPage(items []model.Agremiado, total int64, q *dto.AgremiadoQuery) *dto.AgremiadoPage {
	out := make([]dto.AgremiadoResponse, 0, len(items))
	for i := range items {
		out = append(out, *toAgremiadoResponse(&items[i]))
	}
	return &dto.AgremiadoPage{
		Items: out,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}
}
