package create_booking

import (
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
	uc "github.com/m04kA/VenueBookingService/internal/usecase/create_booking"
)

// BankDetails HTTP model
type BankDetails struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode,omitempty"`
}

// MenuSection HTTP model
type MenuSection struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// CateringVendor HTTP model
type CateringVendor struct {
	Name           string        `json:"name"`
	Phone          string        `json:"phone,omitempty"`
	Email          string        `json:"email,omitempty"`
	Bank           *BankDetails  `json:"bank,omitempty"`
	PackageName    string        `json:"packageName"`
	PricePerPerson float64       `json:"pricePerPerson"`
	FlatPrice      *float64      `json:"flatPrice,omitempty"`
	MenuSections   []MenuSection `json:"menuSections,omitempty"`
}

// ServiceVendor HTTP model
type ServiceVendor struct {
	ServiceName string       `json:"serviceName"`
	Price       float64      `json:"price"`
	Name        string       `json:"name"`
	Phone       string       `json:"phone,omitempty"`
	Email       string       `json:"email,omitempty"`
	Bank        *BankDetails `json:"bank,omitempty"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	VenueID        int64           `json:"venueId"`
	EventName      string          `json:"eventName"`
	GuestCount     int             `json:"guestCount"`
	EventStart     time.Time       `json:"eventStart"`
	EventEnd       time.Time       `json:"eventEnd"`
	TotalAmount    float64         `json:"totalAmount"`
	CateringVendor *CateringVendor `json:"cateringVendor,omitempty"`
	ServiceVendors []ServiceVendor `json:"serviceVendors,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	ID            int64   `json:"id"`
	VenueID       int64   `json:"venueId"`
	EventName     string  `json:"eventName"`
	GuestCount    int     `json:"guestCount"`
	EventStart    string  `json:"eventStart"`
	EventEnd      string  `json:"eventEnd"`
	Status        string  `json:"status"`
	TotalAmount   float64 `json:"totalAmount"`
	AdvanceAmount float64 `json:"advanceAmount"`
	PaymentStatus string  `json:"paymentStatus"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) *uc.Request {
	req := &uc.Request{
		VenueID:     r.VenueID,
		EventName:   r.EventName,
		GuestCount:  r.GuestCount,
		EventStart:  r.EventStart,
		EventEnd:    r.EventEnd,
		TotalAmount: r.TotalAmount,
		Notes:       r.Notes,
		UserID:      userID,
	}

	if r.CateringVendor != nil {
		req.CateringVendor = &domain.VendorAssignment{
			Name:           r.CateringVendor.Name,
			Phone:          r.CateringVendor.Phone,
			Email:          r.CateringVendor.Email,
			Bank:           toDomainBank(r.CateringVendor.Bank),
			PackageName:    r.CateringVendor.PackageName,
			PricePerPerson: r.CateringVendor.PricePerPerson,
			FlatPrice:      r.CateringVendor.FlatPrice,
			MenuSections:   toDomainMenuSections(r.CateringVendor.MenuSections),
		}
	}

	for _, sv := range r.ServiceVendors {
		req.ServiceVendors = append(req.ServiceVendors, domain.ServiceVendorAssignment{
			ServiceName: sv.ServiceName,
			Price:       sv.Price,
			Name:        sv.Name,
			Phone:       sv.Phone,
			Email:       sv.Email,
			Bank:        toDomainBank(sv.Bank),
		})
	}

	return req
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP response
func FromUseCaseResponse(resp *uc.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		ID:            resp.ID,
		VenueID:       resp.VenueID,
		EventName:     resp.EventName,
		GuestCount:    resp.GuestCount,
		EventStart:    resp.EventStart.Format(time.RFC3339),
		EventEnd:      resp.EventEnd.Format(time.RFC3339),
		Status:        resp.Status,
		TotalAmount:   resp.TotalAmount,
		AdvanceAmount: resp.AdvanceAmount,
		PaymentStatus: resp.PaymentStatus,
		Notes:         resp.Notes,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}

func toDomainBank(b *BankDetails) *domain.BankDetails {
	if b == nil {
		return nil
	}

	return &domain.BankDetails{
		AccountName:   b.AccountName,
		AccountNumber: b.AccountNumber,
		IFSCCode:      b.IFSCCode,
	}
}

func toDomainMenuSections(sections []MenuSection) []domain.MenuSection {
	if len(sections) == 0 {
		return nil
	}

	result := make([]domain.MenuSection, 0, len(sections))
	for _, s := range sections {
		result = append(result, domain.MenuSection{
			Name:  s.Name,
			Items: s.Items,
		})
	}
	return result
}
