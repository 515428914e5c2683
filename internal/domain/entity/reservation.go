package entity

// ReservationStatus is the canonical reservation lifecycle status
type ReservationStatus string

const (
	StatusConfirmed  ReservationStatus = "confirmed"
	StatusCheckedIn  ReservationStatus = "checked_in"
	StatusCheckedOut ReservationStatus = "checked_out"
	StatusCancelled  ReservationStatus = "cancelled"
	StatusNoShow     ReservationStatus = "no_show"
	StatusPending    ReservationStatus = "pending"
)

// GuestName holds the split guest name
type GuestName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Address is a canonical postal address
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentMethod holds the card details attached to a reservation
type PaymentMethod struct {
	CardBrand    string `json:"cardBrand"`
	CardLastFour string `json:"cardLastFour"`
	AuthCode     string `json:"authCode,omitempty"`
}

// Reservation is the canonical reservation entity every PMS adapter
// normalizes into. Dates are ISO-8601 strings; TotalAmount is rounded
// to two decimals; Raw keeps the PII-scrubbed vendor payload for audit.
type Reservation struct {
	ConfirmationNumber string            `json:"confirmationNumber"`
	PMSReservationID   string            `json:"pmsReservationId"`
	Status             ReservationStatus `json:"status"`
	GuestProfileID     string            `json:"guestProfileId,omitempty"`
	GuestName          GuestName         `json:"guestName"`
	Email              string            `json:"email,omitempty"`
	Phone              string            `json:"phone,omitempty"`
	Address            Address           `json:"address"`
	CheckInDate        string            `json:"checkInDate"`
	CheckOutDate       string            `json:"checkOutDate"`
	RoomNumber         string            `json:"roomNumber,omitempty"`
	RoomType           string            `json:"roomType,omitempty"`
	RateCode           string            `json:"rateCode,omitempty"`
	TotalAmount        float64           `json:"totalAmount"`
	Currency           string            `json:"currency"`
	NumberOfGuests     int               `json:"numberOfGuests"`
	NumberOfNights     int               `json:"numberOfNights"`
	Payment            PaymentMethod     `json:"paymentMethod"`
	BookingSource      string            `json:"bookingSource,omitempty"`
	CreatedAt          string            `json:"createdAt,omitempty"`
	UpdatedAt          string            `json:"updatedAt,omitempty"`
	SpecialRequests    string            `json:"specialRequests,omitempty"`
	LoyaltyNumber      string            `json:"loyaltyNumber,omitempty"`
	Raw                map[string]any    `json:"raw,omitempty"`
}

// FolioItem is a single line on a guest folio. A Reservation owns its
// folio items; they have no independent lifecycle.
type FolioItem struct {
	FolioID         string  `json:"folioId"`
	WindowNumber    int     `json:"windowNumber"`
	TransactionID   string  `json:"transactionId"`
	TransactionCode string  `json:"transactionCode"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	PostDate        string  `json:"postDate"`
	CardLastFour    string  `json:"cardLastFour,omitempty"`
	AuthCode        string  `json:"authCode,omitempty"`
	Reference       string  `json:"reference,omitempty"`
	Reversal        bool    `json:"reversal"`
	Quantity        int     `json:"quantity"`
}

// GuestProfile is independently addressable; reservations reference it
// by GuestProfileID and adapters re-fetch it on demand.
type GuestProfile struct {
	GuestID       string    `json:"guestId"`
	Name          GuestName `json:"name"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       Address   `json:"address"`
	LoyaltyNumber string    `json:"loyaltyNumber,omitempty"`
	LoyaltyTier   string    `json:"loyaltyTier,omitempty"`
	TotalStays    int       `json:"totalStays"`
	TotalRevenue  float64   `json:"totalRevenue"`
	LastStayDate  string    `json:"lastStayDate,omitempty"`
}

// RatePlan describes a bookable rate
type RatePlan struct {
	RateCode           string   `json:"rateCode"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Category           string   `json:"category,omitempty"`
	BaseAmount         float64  `json:"baseAmount"`
	Currency           string   `json:"currency"`
	StartDate          string   `json:"startDate,omitempty"`
	EndDate            string   `json:"endDate,omitempty"`
	RoomTypes          []string `json:"roomTypes,omitempty"`
	CancellationPolicy string   `json:"cancellationPolicy,omitempty"`
}

// PushAck is the uniform acknowledgment returned by every push operation
// (notes, flags, chargeback alerts, dispute outcomes).
type PushAck struct {
	Success   bool   `json:"success"`
	ID        string `json:"id"`
	PMSType   string `json:"pmsType"`
	CreatedAt string `json:"createdAt"`
}
