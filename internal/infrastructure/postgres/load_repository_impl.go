package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baltotest/freight-api/internal/domain/entity"
	"github.com/baltotest/freight-api/internal/domain/repository"
)

type LoadRepository struct {
	pool *pgxpool.Pool
}

func NewLoadRepository(pool *pgxpool.Pool) *LoadRepository {
	return &LoadRepository{pool: pool}
}

const loadColumns = `id, origin_address, destination_address, pickup_date, delivery_date,
	estimated_delivery_date, status, broker_id, customer_id, carrier_id,
	vehicle_details, notes, created_at, updated_at`

func scanLoad(row pgx.Row) (*entity.Load, error) {
	l := &entity.Load{}
	var status string
	if err := row.Scan(&l.ID, &l.OriginAddress, &l.DestinationAddress, &l.PickupDate, &l.DeliveryDate,
		&l.EstimatedDeliveryDate, &status, &l.BrokerID, &l.CustomerID, &l.CarrierID,
		&l.VehicleDetails, &l.Notes, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	l.Status = entity.LoadStatus(status)
	return l, nil
}

func (r *LoadRepository) Create(ctx context.Context, l *entity.Load) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	row := db(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO loads (id, origin_address, destination_address, pickup_date, delivery_date,
			estimated_delivery_date, status, broker_id, customer_id, carrier_id, vehicle_details, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`, l.ID, l.OriginAddress, l.DestinationAddress, l.PickupDate, l.DeliveryDate,
		l.EstimatedDeliveryDate, string(l.Status), l.BrokerID, l.CustomerID, l.CarrierID, l.VehicleDetails, l.Notes)

	return mapErr(row.Scan(&l.CreatedAt, &l.UpdatedAt))
}

func (r *LoadRepository) GetByID(ctx context.Context, id string) (*entity.Load, error) {
	return scanLoad(db(ctx, r.pool).QueryRow(ctx, `SELECT `+loadColumns+` FROM loads WHERE id = $1`, id))
}

func (r *LoadRepository) Update(ctx context.Context, l *entity.Load) error {
	l.UpdatedAt = time.Now().UTC()
	return affected(db(ctx, r.pool).Exec(ctx, `
		UPDATE loads
		SET origin_address = $1, destination_address = $2, pickup_date = $3, delivery_date = $4,
		    estimated_delivery_date = $5, status = $6, broker_id = $7, customer_id = $8,
		    carrier_id = $9, vehicle_details = $10, notes = $11, updated_at = $12
		WHERE id = $13
	`, l.OriginAddress, l.DestinationAddress, l.PickupDate, l.DeliveryDate,
		l.EstimatedDeliveryDate, string(l.Status), l.BrokerID, l.CustomerID,
		l.CarrierID, l.VehicleDetails, l.Notes, l.UpdatedAt, l.ID))
}

func (r *LoadRepository) Delete(ctx context.Context, id string) error {
	return affected(db(ctx, r.pool).Exec(ctx, `DELETE FROM loads WHERE id = $1`, id))
}

func (r *LoadRepository) List(ctx context.Context, f repository.LoadFilter) ([]*entity.Load, error) {
	var w where
	if f.BrokerID != "" {
		w.eq("broker_id", f.BrokerID)
	}
	if f.CustomerID != "" {
		w.eq("customer_id", f.CustomerID)
	}
	if f.CarrierID != "" {
		w.eq("carrier_id", f.CarrierID)
	}
	if f.Status != "" {
		w.eq("status", string(f.Status))
	}
	rows, err := db(ctx, r.pool).Query(ctx,
		`SELECT `+loadColumns+` FROM loads`+w.String()+` ORDER BY created_at DESC, id`, w.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []*entity.Load{}
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, mapErr(rows.Err())
}

var _ repository.LoadRepository = (*LoadRepository)(nil)
