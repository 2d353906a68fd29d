package purchaseorders

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VenueBookingService/internal/domain"
	poRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/purchaseorder"
	"github.com/m04kA/VenueBookingService/internal/service/purchaseorders/models"
)

// Разрешенные исходные статусы для guarded-переходов жизненного цикла.
// Одобрение доступно из draft и pending; отмена - из любого
// нетерминального статуса, включая partially_paid.
var (
	approveAllowedFrom = []domain.POStatus{domain.POStatusDraft, domain.POStatusPending}
	cancelAllowedFrom  = []domain.POStatus{
		domain.POStatusDraft,
		domain.POStatusPending,
		domain.POStatusApproved,
		domain.POStatusPartiallyPaid,
	}
)

// Service жизненный цикл заказов поставщикам
//
// Платежная ось (partially_paid, paid) управляется сверкой с леджером
// транзакций, здесь только ручные переходы: одобрение и отмена.
type Service struct {
	repo   PurchaseOrderRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса заказов поставщикам
func NewService(repo PurchaseOrderRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetByID получает заказ по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.PurchaseOrderResponse, error) {
	po, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, poRepo.ErrPONotFound) {
			s.logger.Warn("GetByID: purchase order=%d not found", id)
			return nil, ErrPONotFound
		}
		s.logger.Error("GetByID: repository error for po=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPurchaseOrder(po), nil
}

// GetByPONumber получает заказ по номеру формата PO-YYYY-MM-NNNN
func (s *Service) GetByPONumber(ctx context.Context, poNumber string) (*models.PurchaseOrderResponse, error) {
	if poNumber == "" {
		return nil, fmt.Errorf("%w: poNumber is required", ErrInvalidInput)
	}

	po, err := s.repo.GetByPONumber(ctx, poNumber)
	if err != nil {
		if errors.Is(err, poRepo.ErrPONotFound) {
			s.logger.Warn("GetByPONumber: purchase order=%s not found", poNumber)
			return nil, ErrPONotFound
		}
		s.logger.Error("GetByPONumber: repository error for po=%s: %v", poNumber, err)
		return nil, fmt.Errorf("%w: GetByPONumber - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPurchaseOrder(po), nil
}

// ListByBooking получает все заказы бронирования
func (s *Service) ListByBooking(ctx context.Context, bookingID int64) (*models.PurchaseOrderListResponse, error) {
	orders, err := s.repo.ListByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("ListByBooking: repository error for booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: ListByBooking - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPurchaseOrderList(orders), nil
}

// Approve одобряет заказ поставщику
//
// Guard по исходному статусу выполняется в WHERE самого UPDATE,
// поэтому конкурентная отмена не будет затерта одобрением.
func (s *Service) Approve(ctx context.Context, id int64, userID int64) (*models.PurchaseOrderResponse, error) {
	s.logger.Info("Approve: po=%d by user=%d", id, userID)

	err := s.repo.UpdateStatusGuarded(ctx, id, domain.POStatusApproved, approveAllowedFrom)
	if err != nil {
		switch {
		case errors.Is(err, poRepo.ErrPONotFound):
			s.logger.Warn("Approve: purchase order=%d not found", id)
			return nil, ErrPONotFound
		case errors.Is(err, poRepo.ErrStatusConflict):
			s.logger.Warn("Approve: po=%d is not in an approvable status", id)
			return nil, fmt.Errorf("%w: Approve", ErrStatusConflict)
		default:
			s.logger.Error("Approve: repository error for po=%d: %v", id, err)
			return nil, fmt.Errorf("%w: Approve - repository error: %v", ErrInternal, err)
		}
	}

	return s.GetByID(ctx, id)
}

// Cancel отменяет заказ поставщику с обязательной причиной
//
// Полностью оплаченный заказ терминален и отмене не подлежит.
// Частично оплаченный заказ отменить можно - возврат средств
// оформляется отдельными refund-транзакциями в леджере.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelPORequest) (*models.PurchaseOrderResponse, error) {
	s.logger.Info("Cancel: po=%d by user=%d", id, req.UserID)

	if req.Reason == "" {
		s.logger.Warn("Cancel: missing cancellation reason for po=%d", id)
		return nil, fmt.Errorf("%w: cancellation reason is required", ErrInvalidInput)
	}

	err := s.repo.CancelGuarded(ctx, id, req.Reason, cancelAllowedFrom)
	if err != nil {
		switch {
		case errors.Is(err, poRepo.ErrPONotFound):
			s.logger.Warn("Cancel: purchase order=%d not found", id)
			return nil, ErrPONotFound
		case errors.Is(err, poRepo.ErrStatusConflict):
			s.logger.Warn("Cancel: po=%d is in a terminal status", id)
			return nil, fmt.Errorf("%w: Cancel", ErrStatusConflict)
		default:
			s.logger.Error("Cancel: repository error for po=%d: %v", id, err)
			return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}
	}

	return s.GetByID(ctx, id)
}
