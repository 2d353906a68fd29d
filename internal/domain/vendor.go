package domain

// BankDetails optional bank account details of a vendor
type BankDetails struct {
	AccountName   string
	AccountNumber string
	IFSCCode      string
}

// MenuSection one section of a catering food package
type MenuSection struct {
	Name  string
	Items []string
}

// VendorAssignment a catering vendor assigned to a booking
type VendorAssignment struct {
	Name  string
	Phone string
	Email string
	Bank  *BankDetails

	PackageName    string
	PricePerPerson float64
	// FlatPrice, если задана, используется вместо расчета по количеству гостей
	FlatPrice    *float64
	MenuSections []MenuSection
}

// ServiceVendorAssignment a vendor assigned to a single booking service
// (decoration, photography, sound and so on)
type ServiceVendorAssignment struct {
	ServiceName string
	Price       float64

	Name  string
	Phone string
	Email string
	Bank  *BankDetails
}
