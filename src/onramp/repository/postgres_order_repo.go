package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ghostlabs/asap-onramp/src/logger"
	"github.com/ghostlabs/asap-onramp/src/onramp/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var _ domain.OrderRepository = (*OrderRepo)(nil)

// ---------- ORDERS ----------
// gorm.Model includes:
// ID        uint `gorm:"primarykey"`
// CreatedAt time.Time
// UpdatedAt time.Time
// DeletedAt gorm.DeletedAt `gorm:"index"`
type Order struct {
	gorm.Model

	Status         string          `json:"status" gorm:"index"`
	ServiceType    string          `json:"service_type"`
	Recipient      string          `json:"recipient"`
	Email          string          `json:"email"`
	AmountUSDC     decimal.Decimal `json:"amount_usdc"`
	FeeUSDC        decimal.Decimal `json:"fee_usdc"`
	AmountNGN      decimal.Decimal `json:"amount_ngn"`
	FeeNGN         decimal.Decimal `json:"fee_ngn"`
	TotalNGN       decimal.Decimal `json:"total_ngn"`
	UpstreamID     string          `json:"upstream_id" gorm:"index"`
	OrderHash      string          `json:"order_hash"`
	VirtualAccount *string         `json:"virtual_account"`
	ExpiresAt      time.Time       `json:"expires_at"`
}

// ---------- REPO ----------

type OrderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, log *logger.Logger) *OrderRepo {
	if err := db.AutoMigrate(&Order{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	return &OrderRepo{db: db, log: log}
}

// ---------- ORDER CRUD ----------

func (r *OrderRepo) SaveOrder(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	model := Order{
		Status:         string(o.Status),
		ServiceType:    string(o.ServiceType),
		Recipient:      o.Recipient,
		Email:          o.Email,
		AmountUSDC:     o.AmountUSDC,
		FeeUSDC:        o.FeeUSDC,
		AmountNGN:      o.AmountNGN,
		FeeNGN:         o.FeeNGN,
		TotalNGN:       o.TotalNGN,
		UpstreamID:     o.UpstreamID,
		OrderHash:      o.OrderHash,
		VirtualAccount: marshalToString(o.VirtualAccount),
		ExpiresAt:      o.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	return r.GetOrderByID(ctx, model.ID)
}

func (r *OrderRepo) GetOrderByID(ctx context.Context, id uint) (*domain.Order, error) {
	var o Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomainOrder(&o), nil
}

func (r *OrderRepo) GetOrdersByStatuses(ctx context.Context, statuses ...domain.OrderStatus) ([]domain.Order, error) {
	var models []Order
	if err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Find(&models).Error; err != nil {
		return nil, err
	}
	return r.toDomainOrders(models), nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&Order{}).
		Where("id = ?", id).
		Updates(Order{Status: string(status)}).Error
}

// ---------- HELPERS ----------

func (r *OrderRepo) toDomainOrder(o *Order) *domain.Order {
	return &domain.Order{
		ID:             o.ID,
		Status:         domain.OrderStatus(o.Status),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		ServiceType:    domain.ServiceType(o.ServiceType),
		Recipient:      o.Recipient,
		Email:          o.Email,
		AmountUSDC:     o.AmountUSDC,
		FeeUSDC:        o.FeeUSDC,
		AmountNGN:      o.AmountNGN,
		FeeNGN:         o.FeeNGN,
		TotalNGN:       o.TotalNGN,
		UpstreamID:     o.UpstreamID,
		OrderHash:      o.OrderHash,
		VirtualAccount: unmarshalVirtualAccount(o.VirtualAccount),
		ExpiresAt:      o.ExpiresAt,
	}
}

func (r *OrderRepo) toDomainOrders(os []Order) []domain.Order {
	var dos []domain.Order
	for _, o := range os {
		dos = append(dos, *r.toDomainOrder(&o))
	}
	return dos
}

func marshalToString(va *domain.VirtualAccount) *string {
	if va == nil {
		return nil
	}
	b, err := json.Marshal(va)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

func unmarshalVirtualAccount(data *string) *domain.VirtualAccount {
	if data == nil {
		return nil
	}
	var va domain.VirtualAccount
	if err := json.Unmarshal([]byte(*data), &va); err != nil {
		return nil
	}
	return &va
}
