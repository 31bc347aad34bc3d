package models

import "time"

// Medicine represents a catalog entry with its per-pharmacy stock
type Medicine struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	GenericName  string          `json:"genericName"`
	Strength     string          `json:"strength"`
	Form         string          `json:"form"`
	Price        string          `json:"price"`
	InStock      bool            `json:"inStock"`
	StockLevel   string          `json:"stockLevel"`
	Description  string          `json:"description"`
	Manufacturer string          `json:"manufacturer"`
	ExpiryDate   string          `json:"expiryDate"`
	Pharmacies   []PharmacyStock `json:"pharmacies"`
}

// PharmacyStock is one pharmacy's stock of a medicine
type PharmacyStock struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Distance   string  `json:"distance"`
	Rating     float64 `json:"rating"`
	StockCount int     `json:"stockCount"`
	Address    string  `json:"address"`
	Phone      string  `json:"phone"`
}

// AdvisorEntry maps a lowercase keyword to a canned response
type AdvisorEntry struct {
	Keyword              string   `json:"keyword"`
	Response             string   `json:"response"`
	RecommendedMedicines []string `json:"recommendedMedicines"`
}

// Advice is the advisor's answer to a symptom query
type Advice struct {
	Response             string     `json:"response"`
	RecommendedMedicines []Medicine `json:"recommendedMedicines"`
}

// Reservation holds stock at a pharmacy for a limited time
type Reservation struct {
	ID         string    `json:"id"`
	MedicineID string    `json:"medicineId"`
	PharmacyID string    `json:"pharmacyId"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// QualityReport is a user-submitted medicine quality issue
type QualityReport struct {
	ID           string    `json:"id"`
	MedicineName string    `json:"medicineName"`
	PharmacyName string    `json:"pharmacyName"`
	Location     string    `json:"location"`
	IssueType    string    `json:"issueType"`
	Description  string    `json:"description"`
	Anonymous    bool      `json:"anonymous"`
	ContactInfo  string    `json:"contactInfo"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// QualityReportInput carries the user-supplied report fields
type QualityReportInput struct {
	MedicineName string `json:"medicineName"`
	PharmacyName string `json:"pharmacyName"`
	Location     string `json:"location"`
	IssueType    string `json:"issueType"`
	Description  string `json:"description"`
	Anonymous    bool   `json:"anonymous"`
	ContactInfo  string `json:"contactInfo"`
}

// MedicineNotification is a request to be told when a medicine is back in stock
type MedicineNotification struct {
	ID           string    `json:"id"`
	MedicineName string    `json:"medicineName"`
	PhoneNumber  string    `json:"phoneNumber"`
	CreatedAt    time.Time `json:"createdAt"`
	Status       string    `json:"status"`
}

// Preferences is the locally stored UI state
type Preferences struct {
	Language         string `json:"language"`
	LocationDetected bool   `json:"locationDetected"`
}

// Stock levels
const (
	StockLevelHigh   = "high"
	StockLevelMedium = "medium"
	StockLevelLow    = "low"
)

// Record statuses
const (
	ReservationStatusConfirmed = "confirmed"
	ReportStatusSubmitted      = "submitted"
	NotificationStatusActive   = "active"
)

// Issue types accepted on quality reports
const (
	IssueTypePackaging     = "packaging"
	IssueTypeAppearance    = "appearance"
	IssueTypeEffectiveness = "effectiveness"
	IssueTypeSideEffects   = "side-effects"
	IssueTypeExpiry        = "expiry"
	IssueTypeCounterfeit   = "counterfeit"
)

// IssueTypes lists the issue types in display order
var IssueTypes = []string{
	IssueTypePackaging,
	IssueTypeAppearance,
	IssueTypeEffectiveness,
	IssueTypeSideEffects,
	IssueTypeExpiry,
	IssueTypeCounterfeit,
}

// IsValidIssueType reports whether t is a known issue type
func IsValidIssueType(t string) bool {
	for _, known := range IssueTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Languages
const (
	LanguageEnglish = "en"
	LanguageFrench  = "fr"
)

// Persisted keys
const (
	KeyReservations          = "reservations"
	KeyQualityReports        = "qualityReports"
	KeyMedicineNotifications = "medicineNotifications"
	KeyLocationDetected      = "locationDetected"
	KeyPreferredLanguage     = "preferred-language"
)
