package generate_purchase_orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
)

// UseCase use case для генерации заказов поставщикам по бронированию
//
// Генерация - отдельный вызов после создания бронирования: ошибка здесь
// никогда не откатывает само бронирование. Кейтеринг-поставщик получает
// один заказ с позициями по секциям меню и агрегирующей строкой пакета;
// каждый поставщик услуги - отдельный заказ с одной позицией.
type UseCase struct {
	bookingRepo  BookingRepository
	poRepo       PurchaseOrderRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	poRepo PurchaseOrderRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		poRepo:       poRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет генерацию заказов поставщикам
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GeneratePurchaseOrders: booking=%d, user=%d", req.BookingID, req.UserID)

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("GeneratePurchaseOrders: booking=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("GeneratePurchaseOrders: failed to get booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.IsCancelled() {
		uc.logger.Warn("GeneratePurchaseOrders: booking=%d is cancelled", req.BookingID)
		return nil, ErrBookingCancelled
	}

	// Повторная генерация запрещена: заказы уже несут выданные номера
	// и, возможно, платежи
	exists, err := uc.poRepo.ExistsForBooking(ctx, req.BookingID)
	if err != nil {
		uc.logger.Error("GeneratePurchaseOrders: failed to check existing orders: %v", err)
		return nil, fmt.Errorf("%w: failed to check existing orders: %v", ErrInternal, err)
	}
	if exists {
		uc.logger.Warn("GeneratePurchaseOrders: orders already exist for booking=%d", req.BookingID)
		return nil, ErrPurchaseOrdersExist
	}

	if booking.CateringVendor == nil && len(booking.ServiceVendors) == 0 {
		uc.logger.Warn("GeneratePurchaseOrders: booking=%d has no vendors", req.BookingID)
		return nil, ErrNoVendorsAssigned
	}

	resp := &Response{
		PurchaseOrders: make([]*domain.PurchaseOrder, 0),
		Failed:         make([]FailedVendor, 0),
	}

	// Best-effort: ошибка по одному поставщику не отменяет остальных
	if booking.CateringVendor != nil {
		po := buildCateringPO(booking, req.UserID)
		uc.createPO(ctx, po, resp)
	}

	for i := range booking.ServiceVendors {
		po := buildServicePO(booking, &booking.ServiceVendors[i], req.UserID)
		uc.createPO(ctx, po, resp)
	}

	uc.logger.Info("GeneratePurchaseOrders: booking=%d created=%d failed=%d",
		req.BookingID, len(resp.PurchaseOrders), len(resp.Failed))

	return resp, nil
}

// createPO выделяет номер, сохраняет заказ и раскладывает результат
// по успешным или неудачным
func (uc *UseCase) createPO(ctx context.Context, po *domain.PurchaseOrder, resp *Response) {
	poNumber, err := uc.poRepo.NextPONumber(ctx, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("GeneratePurchaseOrders: failed to allocate number for vendor=%q: %v",
			po.VendorName, err)
		resp.Failed = append(resp.Failed, FailedVendor{
			VendorName: po.VendorName,
			Reason:     "failed to allocate purchase order number",
		})
		return
	}

	po.PONumber = poNumber

	created, err := uc.poRepo.Create(ctx, po)
	if err != nil {
		uc.logger.Error("GeneratePurchaseOrders: failed to create order for vendor=%q: %v",
			po.VendorName, err)
		resp.Failed = append(resp.Failed, FailedVendor{
			VendorName: po.VendorName,
			Reason:     "failed to create purchase order",
		})
		return
	}

	resp.PurchaseOrders = append(resp.PurchaseOrders, created)
}

// buildCateringPO строит заказ кейтеринг-поставщику: информационные
// позиции по секциям меню и агрегирующая строка пакета, несущая сумму.
// FlatPrice пакета имеет приоритет над расчетом по количеству гостей.
func buildCateringPO(booking *domain.Booking, createdBy int64) *domain.PurchaseOrder {
	vendor := booking.CateringVendor

	lineItems := make([]domain.POLineItem, 0, len(vendor.MenuSections)+1)
	for _, section := range vendor.MenuSections {
		lineItems = append(lineItems, domain.POLineItem{
			Description: formatMenuSection(section),
			Quantity:    len(section.Items),
			UnitPrice:   0,
			Amount:      0,
		})
	}

	var packageLine domain.POLineItem
	if vendor.FlatPrice != nil {
		packageLine = domain.POLineItem{
			Description: vendor.PackageName,
			Quantity:    1,
			UnitPrice:   *vendor.FlatPrice,
			Amount:      *vendor.FlatPrice,
		}
	} else {
		packageLine = domain.POLineItem{
			Description: vendor.PackageName,
			Quantity:    booking.GuestCount,
			UnitPrice:   vendor.PricePerPerson,
			Amount:      vendor.PricePerPerson * float64(booking.GuestCount),
		}
	}
	lineItems = append(lineItems, packageLine)

	return newDraftPO(booking, domain.VendorTypeCatering,
		vendor.Name, vendor.Phone, vendor.Email, vendor.Bank,
		lineItems, packageLine.Amount, createdBy)
}

// buildServicePO строит заказ поставщику отдельной услуги с одной позицией
func buildServicePO(booking *domain.Booking, vendor *domain.ServiceVendorAssignment, createdBy int64) *domain.PurchaseOrder {
	lineItems := []domain.POLineItem{{
		Description: vendor.ServiceName,
		Quantity:    1,
		UnitPrice:   vendor.Price,
		Amount:      vendor.Price,
	}}

	return newDraftPO(booking, domain.VendorTypeService,
		vendor.Name, vendor.Phone, vendor.Email, vendor.Bank,
		lineItems, vendor.Price, createdBy)
}

func newDraftPO(
	booking *domain.Booking,
	vendorType domain.VendorType,
	name, phone, email string,
	bank *domain.BankDetails,
	lineItems []domain.POLineItem,
	totalAmount float64,
	createdBy int64,
) *domain.PurchaseOrder {
	return &domain.PurchaseOrder{
		BookingID:     booking.ID,
		VenueID:       booking.VenueID,
		VendorType:    vendorType,
		VendorName:    name,
		VendorPhone:   phone,
		VendorEmail:   email,
		VendorBank:    bank,
		LineItems:     lineItems,
		TotalAmount:   totalAmount,
		PaidAmount:    0,
		BalanceAmount: totalAmount,
		Status:        domain.POStatusDraft,
		CreatedBy:     createdBy,
	}
}

func formatMenuSection(section domain.MenuSection) string {
	if len(section.Items) == 0 {
		return section.Name
	}

	desc := section.Name + ": "
	for i, item := range section.Items {
		if i > 0 {
			desc += ", "
		}
		desc += item
	}
	return desc
}
