package repository

import (
	"context"
	"database/sql"

	"github.com/TranHoa21/Mufilika/internal/domain"
	pkgdto "github.com/TranHoa21/Mufilika/pkg/dto"
	"github.com/TranHoa21/Mufilika/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type TourRepositoryImpl struct {
	db *sqlx.DB
}

func CreateTourRepository(db *sqlx.DB) TourRepository {
	return &TourRepositoryImpl{
		db: db,
	}
}

func (r *TourRepositoryImpl) GetTours(ctx context.Context, filter pkgdto.Filter) (data []domain.Tour, err error) {
	query := "SELECT * FROM tours WHERE deleted_at IS NULL"

	args := make(map[string]interface{})

	if filter.Q != "" {
		query += " AND name ILIKE :q"
		args["q"] = "%" + filter.Q + "%"
	}

	query += " ORDER BY id ASC"

	if filter.Limit != 0 && filter.Page != 0 {
		offset := (filter.Page - 1) * filter.Limit
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = offset
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetTours").Msg("")
		return nil, errs.ErrInternalServer
	}

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetTours").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

func (r *TourRepositoryImpl) GetTourByID(ctx context.Context, id int64) (data domain.Tour, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM tours WHERE id = $1 AND deleted_at IS NULL", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, errs.ErrTourNotFound
		}
		log.Error().Err(err).Str("component", "GetTourByID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *TourRepositoryImpl) GetTourBySlug(ctx context.Context, slug string) (data domain.Tour, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM tours WHERE slug = $1 AND deleted_at IS NULL", slug)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, errs.ErrTourNotFound
		}
		log.Error().Err(err).Str("component", "GetTourBySlug").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *TourRepositoryImpl) GetTourDatesByTourID(ctx context.Context, tourID int64) (data []domain.TourDate, err error) {
	err = r.db.SelectContext(ctx, &data, "SELECT * FROM tour_dates WHERE tour_id = $1 AND deleted_at IS NULL ORDER BY id ASC", tourID)
	if err != nil {
		log.Error().Err(err).Str("component", "GetTourDatesByTourID").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

func (r *TourRepositoryImpl) AddTour(ctx context.Context, data domain.Tour) (id int64, err error) {
	nstmt, err := r.db.PrepareNamedContext(ctx, "INSERT INTO tours(name, slug, address, description, duration, max_guests, price, image_url, created_at, updated_at) VALUES (:name, :slug, :address, :description, :duration, :max_guests, :price, :image_url, :created_at, :updated_at) returning id")
	if err != nil {
		log.Error().Err(err).Str("component", "AddTour").Msg("")
		return 0, errs.ErrInternalServer
	}

	err = nstmt.GetContext(ctx, &data.ID, data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddTour").Msg("")
		return 0, errs.ErrInternalServer
	}

	return data.ID, nil
}

func (r *TourRepositoryImpl) UpdateTour(ctx context.Context, data domain.Tour) (err error) {
	result, err := r.db.NamedExecContext(ctx, "UPDATE tours SET name = :name, slug = :slug, address = :address, description = :description, duration = :duration, max_guests = :max_guests, price = :price, image_url = COALESCE(:image_url, image_url), updated_at = :updated_at WHERE id = :id AND deleted_at IS NULL", data)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateTour").Msg("")
		return errs.ErrInternalServer
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateTour").Msg("")
		return errs.ErrInternalServer
	}
	if affected == 0 {
		return errs.ErrTourNotFound
	}

	return nil
}

func (r *TourRepositoryImpl) DeleteTour(ctx context.Context, slug string, deletedAt int64) (err error) {
	result, err := r.db.ExecContext(ctx, "UPDATE tours SET deleted_at = $1 WHERE slug = $2 AND deleted_at IS NULL", deletedAt, slug)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteTour").Msg("")
		return errs.ErrInternalServer
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteTour").Msg("")
		return errs.ErrInternalServer
	}
	if affected == 0 {
		return errs.ErrTourNotFound
	}

	return nil
}
