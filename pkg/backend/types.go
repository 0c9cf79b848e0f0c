package backend

import (
	"time"

	"github.com/joramcars/dealership-web/pkg/enums"
	"github.com/shopspring/decimal"
)

// VehicleImage is a stored photo of a listed vehicle.
type VehicleImage struct {
	ID           string    `json:"id"`
	ImageURL     string    `json:"image_url"`
	IsPrimary    bool      `json:"is_primary"`
	DisplayOrder int       `json:"display_order"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Vehicle is a listed vehicle as returned by the API.
type Vehicle struct {
	ID                 string                   `json:"id"`
	Title              string                   `json:"title"`
	Make               string                   `json:"make"`
	Model              string                   `json:"model"`
	Year               int                      `json:"year"`
	Trim               string                   `json:"trim,omitempty"`
	Price              decimal.Decimal          `json:"price"`
	Currency           string                   `json:"currency"`
	Mileage            int                      `json:"mileage,omitempty"`
	BodyType           enums.BodyType           `json:"body_type,omitempty"`
	Transmission       enums.Transmission       `json:"transmission,omitempty"`
	FuelType           enums.FuelType           `json:"fuel_type,omitempty"`
	Condition          string                   `json:"condition,omitempty"`
	Color              string                   `json:"color,omitempty"`
	EngineCapacity     string                   `json:"engine_capacity,omitempty"`
	AvailabilityStatus enums.AvailabilityStatus `json:"availability_status"`
	Location           string                   `json:"location,omitempty"`
	Description        string                   `json:"description,omitempty"`
	Features           []string                 `json:"features,omitempty"`
	IsFeatured         bool                     `json:"is_featured"`
	ViewsCount         int                      `json:"views_count"`
	PrimaryImage       string                   `json:"primary_image,omitempty"`
	Images             []VehicleImage           `json:"images,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// VehicleList is a page of vehicles plus the total match count.
type VehicleList struct {
	Items []Vehicle `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page,omitempty"`
	Limit int       `json:"limit,omitempty"`
	Pages int       `json:"pages,omitempty"`
}

// VehicleInput is the admin create/update payload. Nil pointers are left out
// so the same type serves partial updates.
type VehicleInput struct {
	Make               *string                   `json:"make,omitempty" validate:"omitempty,min=1,max=100"`
	Model              *string                   `json:"model,omitempty" validate:"omitempty,min=1,max=100"`
	Year               *int                      `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2030"`
	Trim               *string                   `json:"trim,omitempty" validate:"omitempty,max=50"`
	Price              *decimal.Decimal          `json:"price,omitempty"`
	Currency           *string                   `json:"currency,omitempty"`
	Mileage            *int                      `json:"mileage,omitempty" validate:"omitempty,gte=0"`
	BodyType           *enums.BodyType           `json:"body_type,omitempty"`
	Transmission       *enums.Transmission       `json:"transmission,omitempty"`
	FuelType           *enums.FuelType           `json:"fuel_type,omitempty"`
	Condition          *string                   `json:"condition,omitempty"`
	Color              *string                   `json:"color,omitempty" validate:"omitempty,max=50"`
	EngineCapacity     *string                   `json:"engine_capacity,omitempty" validate:"omitempty,max=20"`
	AvailabilityStatus *enums.AvailabilityStatus `json:"availability_status,omitempty"`
	Location           *string                   `json:"location,omitempty"`
	Description        *string                   `json:"description,omitempty"`
	Features           []string                  `json:"features,omitempty"`
	IsFeatured         *bool                     `json:"is_featured,omitempty"`
}

// Brand is a car brand shown on the home page.
type Brand struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name" validate:"required,min=1,max=100"`
	LogoURL      string `json:"logo_url,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

// BrandList is the admin brand listing.
type BrandList struct {
	Items []Brand `json:"items"`
	Total int     `json:"total"`
}

// EnquiryInput is a customer enquiry about a vehicle or the dealership.
type EnquiryInput struct {
	CustomerName  string `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	CustomerPhone string `json:"customer_phone" validate:"required,min=10,max=20"`
	Message       string `json:"message,omitempty"`
	EnquiryType   string `json:"enquiry_type,omitempty" validate:"omitempty,oneof=purchase test_drive finance general"`
	VehicleID     string `json:"vehicle_id,omitempty"`
}

// Enquiry is a stored enquiry as seen from the admin inbox.
type Enquiry struct {
	ID            string              `json:"id"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	CustomerPhone string              `json:"customer_phone"`
	Message       string              `json:"message,omitempty"`
	EnquiryType   string              `json:"enquiry_type"`
	VehicleID     string              `json:"vehicle_id,omitempty"`
	VehicleTitle  string              `json:"vehicle_title,omitempty"`
	Status        enums.EnquiryStatus `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	RespondedAt   *time.Time          `json:"responded_at,omitempty"`
}

// EnquiryList is a page of enquiries.
type EnquiryList struct {
	Items []Enquiry `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page,omitempty"`
	Limit int       `json:"limit,omitempty"`
}

// SellRequestImage is a photo attached to a sell request.
type SellRequestImage struct {
	ID         string    `json:"id"`
	ImageURL   string    `json:"image_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// SellRequest is a stored sell-your-car request.
type SellRequest struct {
	ID              string                  `json:"id"`
	CustomerName    string                  `json:"customer_name"`
	CustomerEmail   string                  `json:"customer_email"`
	CustomerPhone   string                  `json:"customer_phone"`
	VehicleMake     string                  `json:"vehicle_make"`
	VehicleModel    string                  `json:"vehicle_model"`
	VehicleYear     int                     `json:"vehicle_year"`
	Mileage         *int                    `json:"mileage,omitempty"`
	Condition       string                  `json:"condition,omitempty"`
	AskingPrice     *decimal.Decimal        `json:"asking_price,omitempty"`
	Description     string                  `json:"description,omitempty"`
	ServiceType     string                  `json:"service_type,omitempty"`
	Status          enums.SellRequestStatus `json:"status"`
	ValuationAmount *decimal.Decimal        `json:"valuation_amount,omitempty"`
	Images          []SellRequestImage      `json:"images,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// SellRequestList is a page of sell requests.
type SellRequestList struct {
	Items []SellRequest `json:"items"`
	Total int           `json:"total"`
	Page  int           `json:"page,omitempty"`
	Limit int           `json:"limit,omitempty"`
}

// User is a back-office account.
type User struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	FullName  string         `json:"full_name,omitempty"`
	Role      enums.UserRole `json:"role"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	LastLogin *time.Time     `json:"last_login,omitempty"`
}

// UserInput creates or updates a back-office account.
type UserInput struct {
	Username string          `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email    string          `json:"email,omitempty" validate:"omitempty,email"`
	FullName string          `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Role     *enums.UserRole `json:"role,omitempty"`
	Password string          `json:"password,omitempty" validate:"omitempty,min=6"`
	IsActive *bool           `json:"is_active,omitempty"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// Message is the generic acknowledgement body.
type Message struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// PublicStats feeds the home page counters.
type PublicStats struct {
	TotalVehicles     int `json:"total_vehicles"`
	TotalBrands       int `json:"total_brands"`
	VehiclesAvailable int `json:"vehicles_available"`
	VehiclesSold      int `json:"vehicles_sold"`
}

// DashboardStats feeds the admin dashboard.
type DashboardStats struct {
	TotalVehicles       int `json:"total_vehicles"`
	TotalEnquiries      int `json:"total_enquiries"`
	TotalSellRequests   int `json:"total_sell_requests"`
	NewEnquiries        int `json:"new_enquiries"`
	PendingSellRequests int `json:"pending_sell_requests"`
	VehiclesAvailable   int `json:"vehicles_available"`
	VehiclesSold        int `json:"vehicles_sold"`
	FeaturedVehicles    int `json:"featured_vehicles"`
	TotalViews          int `json:"total_views"`
}

// LeadInput captures a buyer's contact details from a vehicle page.
type LeadInput struct {
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	VehicleID string `json:"vehicle_id" validate:"required"`
	Message   string `json:"message,omitempty"`
}

// LeadResult is the API's response to a captured lead.
type LeadResult struct {
	Message      string `json:"message"`
	UserID       string `json:"user_id"`
	IsNewUser    bool   `json:"is_new_user"`
	WhatsAppLink string `json:"whatsapp_link"`
}

// Upload is an in-memory file sent as a multipart part.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
