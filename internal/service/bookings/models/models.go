package models

import (
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// Request модели

// VenueBookingsRequest параметры выборки бронирований площадки
type VenueBookingsRequest struct {
	VenueID         int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *string
	IncludeInactive bool
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason string `json:"reason"`
	UserID int64  `json:"userId"`
}

// Response модели

// BankDetailsResponse банковские реквизиты поставщика
type BankDetailsResponse struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode,omitempty"`
}

// MenuSectionResponse секция меню кейтеринг-пакета
type MenuSectionResponse struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// CateringVendorResponse кейтеринг-поставщик бронирования
type CateringVendorResponse struct {
	Name           string                `json:"name"`
	Phone          string                `json:"phone,omitempty"`
	Email          string                `json:"email,omitempty"`
	Bank           *BankDetailsResponse  `json:"bank,omitempty"`
	PackageName    string                `json:"packageName"`
	PricePerPerson float64               `json:"pricePerPerson"`
	FlatPrice      *float64              `json:"flatPrice,omitempty"`
	MenuSections   []MenuSectionResponse `json:"menuSections,omitempty"`
}

// ServiceVendorResponse поставщик отдельной услуги бронирования
type ServiceVendorResponse struct {
	ServiceName string               `json:"serviceName"`
	Price       float64              `json:"price"`
	Name        string               `json:"name"`
	Phone       string               `json:"phone,omitempty"`
	Email       string               `json:"email,omitempty"`
	Bank        *BankDetailsResponse `json:"bank,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 int64                   `json:"id"`
	VenueID            int64                   `json:"venueId"`
	EventName          string                  `json:"eventName"`
	GuestCount         int                     `json:"guestCount"`
	EventStart         string                  `json:"eventStart"`
	EventEnd           string                  `json:"eventEnd"`
	Status             string                  `json:"status"`
	TotalAmount        float64                 `json:"totalAmount"`
	AdvanceAmount      float64                 `json:"advanceAmount"`
	PaymentStatus      string                  `json:"paymentStatus"`
	CateringVendor     *CateringVendorResponse `json:"cateringVendor,omitempty"`
	ServiceVendors     []ServiceVendorResponse `json:"serviceVendors,omitempty"`
	Notes              *string                 `json:"notes,omitempty"`
	CancellationReason *string                 `json:"cancellationReason,omitempty"`
	CancelledAt        *string                 `json:"cancelledAt,omitempty"`
	CreatedAt          string                  `json:"createdAt"`
	UpdatedAt          string                  `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		VenueID:            b.VenueID,
		EventName:          b.EventName,
		GuestCount:         b.GuestCount,
		EventStart:         b.EventStart.Format(time.RFC3339),
		EventEnd:           b.EventEnd.Format(time.RFC3339),
		Status:             string(b.Status),
		TotalAmount:        b.TotalAmount,
		AdvanceAmount:      b.AdvanceAmount,
		PaymentStatus:      string(b.PaymentStatus),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}

	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	resp.CateringVendor = fromDomainCateringVendor(b.CateringVendor)

	if len(b.ServiceVendors) > 0 {
		resp.ServiceVendors = make([]ServiceVendorResponse, 0, len(b.ServiceVendors))
		for _, sv := range b.ServiceVendors {
			resp.ServiceVendors = append(resp.ServiceVendors, ServiceVendorResponse{
				ServiceName: sv.ServiceName,
				Price:       sv.Price,
				Name:        sv.Name,
				Phone:       sv.Phone,
				Email:       sv.Email,
				Bank:        fromDomainBank(sv.Bank),
			})
		}
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		if bResp := FromDomainBooking(b); bResp != nil {
			resp.Bookings = append(resp.Bookings, *bResp)
		}
	}

	return resp
}

func fromDomainCateringVendor(v *domain.VendorAssignment) *CateringVendorResponse {
	if v == nil {
		return nil
	}

	resp := &CateringVendorResponse{
		Name:           v.Name,
		Phone:          v.Phone,
		Email:          v.Email,
		Bank:           fromDomainBank(v.Bank),
		PackageName:    v.PackageName,
		PricePerPerson: v.PricePerPerson,
		FlatPrice:      v.FlatPrice,
	}

	if len(v.MenuSections) > 0 {
		resp.MenuSections = make([]MenuSectionResponse, 0, len(v.MenuSections))
		for _, section := range v.MenuSections {
			resp.MenuSections = append(resp.MenuSections, MenuSectionResponse{
				Name:  section.Name,
				Items: section.Items,
			})
		}
	}

	return resp
}

func fromDomainBank(b *domain.BankDetails) *BankDetailsResponse {
	if b == nil {
		return nil
	}

	return &BankDetailsResponse{
		AccountName:   b.AccountName,
		AccountNumber: b.AccountNumber,
		IFSCCode:      b.IFSCCode,
	}
}
