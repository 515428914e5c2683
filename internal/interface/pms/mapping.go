package pms

import (
	"disputeshield-service/internal/domain/entity"
	"disputeshield-service/pkg/normalize"
)

// defaultReservation converts a vendor reservation map into the
// canonical entity. The key lists cover camelCase, PascalCase and
// snake_case conventions; vendors with stranger shapes override it.
func defaultReservation(m map[string]any) entity.Reservation {
	guest := normalize.Map(m, "guest", "Guest", "customer", "primaryGuest", "primary_guest")
	if guest == nil {
		guest = m
	}
	payment := normalize.Map(m, "payment", "Payment", "paymentMethod", "payment_method", "card", "creditCard", "credit_card")

	checkIn := normalize.Date(pick(m, "checkInDate", "check_in_date", "CheckInDate", "arrivalDate", "arrival_date", "arrival", "checkIn", "check_in", "startDate", "start_date", "StartUtc"))
	checkOut := normalize.Date(pick(m, "checkOutDate", "check_out_date", "CheckOutDate", "departureDate", "departure_date", "departure", "checkOut", "check_out", "endDate", "end_date", "EndUtc"))

	name := nameOf(m, guest)

	res := entity.Reservation{
		ConfirmationNumber: normalize.Str(m, "confirmationNumber", "confirmation_number", "ConfirmationNumber", "confirmationNo", "confirmation_no", "confirmationCode", "confirmation_code", "reference", "bookingReference", "booking_reference", "Number"),
		PMSReservationID:   normalize.Str(m, "reservationId", "reservation_id", "ReservationId", "id", "Id", "bookingId", "booking_id"),
		Status:             normalize.ReservationStatus(normalize.Str(m, "status", "Status", "state", "State", "reservationStatus", "reservation_status")),
		GuestProfileID:     normalize.Str(m, "guestId", "guest_id", "GuestId", "guestProfileId", "guest_profile_id", "CustomerId", "customerId", "profileId", "profile_id"),
		GuestName:          name,
		Email:              normalize.Str(guest, "email", "Email", "emailAddress", "email_address"),
		Phone:              normalize.Phone(normalize.Str(guest, "phone", "Phone", "phoneNumber", "phone_number", "telephone", "mobile")),
		Address:            normalize.Address(firstMap(normalize.Map(guest, "address", "Address"), normalize.Map(m, "address", "Address"))),
		CheckInDate:        checkIn,
		CheckOutDate:       checkOut,
		RoomNumber:         normalize.Str(m, "roomNumber", "room_number", "RoomNumber", "room", "Room", "unitNumber", "unit_number"),
		RoomType:           normalize.Str(m, "roomType", "room_type", "RoomType", "roomCategory", "room_category", "unitType", "unit_type"),
		RateCode:           normalize.Str(m, "rateCode", "rate_code", "RateCode", "ratePlanCode", "rate_plan_code", "RateId"),
		TotalAmount:        normalize.F64(m, "totalAmount", "total_amount", "TotalAmount", "total", "Total", "totalPrice", "total_price", "grossTotal", "gross_total", "amount"),
		Currency:           normalize.Currency(normalize.Str(m, "currency", "Currency", "currencyCode", "currency_code")),
		NumberOfGuests:     normalize.IntOf(m, "numberOfGuests", "number_of_guests", "NumberOfGuests", "adults", "Adults", "guestCount", "guest_count", "pax", "AdultCount"),
		Payment: entity.PaymentMethod{
			CardBrand:    normalize.CardBrand(normalize.Str(payment, "cardBrand", "card_brand", "CardBrand", "brand", "cardType", "card_type", "Type")),
			CardLastFour: normalize.CardLastFour(normalize.Str(payment, "cardLastFour", "card_last_four", "last4", "lastFour", "last_four", "cardNumber", "card_number", "maskedNumber", "ObfuscatedNumber")),
			AuthCode:     normalize.Str(payment, "authCode", "auth_code", "AuthCode", "authorizationCode", "authorization_code", "approvalCode"),
		},
		BookingSource:   normalize.Str(m, "bookingSource", "booking_source", "BookingSource", "source", "Source", "channel", "Channel", "channelManager", "Origin"),
		CreatedAt:       normalize.DateTime(pick(m, "createdAt", "created_at", "CreatedAt", "createdUtc", "CreatedUtc", "bookedAt", "insertedAt")),
		UpdatedAt:       normalize.DateTime(pick(m, "updatedAt", "updated_at", "UpdatedAt", "modifiedAt", "modified_at", "UpdatedUtc", "lastModified")),
		SpecialRequests: normalize.Str(m, "specialRequests", "special_requests", "SpecialRequests", "notes", "Notes", "comments", "remarks"),
		LoyaltyNumber:   normalize.Str(firstMap(guest, m), "loyaltyNumber", "loyalty_number", "LoyaltyNumber", "loyaltyId", "loyalty_id", "membershipNumber", "membership_number"),
	}
	return res
}

// nameOf builds the guest name from whichever shape the vendor uses:
// a nested object, split fields, or a single string.
func nameOf(m, guest map[string]any) entity.GuestName {
	if nested := normalize.Map(guest, "name", "Name", "guestName", "guest_name"); nested != nil {
		return normalize.Name(nested)
	}
	first := normalize.Str(guest, "firstName", "first_name", "FirstName", "givenName", "given_name")
	last := normalize.Str(guest, "lastName", "last_name", "LastName", "surname", "Surname", "familyName", "family_name")
	if first != "" || last != "" {
		return entity.GuestName{FirstName: first, LastName: last}
	}
	if s := normalize.Str(guest, "name", "Name", "guestName", "guest_name", "fullName", "full_name"); s != "" {
		return normalize.Name(s)
	}
	return normalize.Name(normalize.Str(m, "guestName", "guest_name", "GuestName"))
}

func pick(m map[string]any, keys ...string) any {
	v, _ := normalize.Lookup(m, keys...)
	return v
}

func firstMap(maps ...map[string]any) map[string]any {
	for _, m := range maps {
		if len(m) > 0 {
			return m
		}
	}
	return nil
}

// defaultFolioItem converts one vendor folio line
func defaultFolioItem(m map[string]any) entity.FolioItem {
	code := normalize.Str(m, "transactionCode", "transaction_code", "TransactionCode", "trxCode", "trx_code", "code", "Code")
	desc := normalize.Str(m, "description", "Description", "desc", "itemName", "item_name", "text")
	quantity := normalize.IntOf(m, "quantity", "Quantity", "qty", "count")
	if quantity == 0 {
		quantity = 1
	}
	return entity.FolioItem{
		FolioID:         normalize.Str(m, "folioId", "folio_id", "FolioId", "folioNumber", "folio_number"),
		WindowNumber:    normalize.IntOf(m, "windowNumber", "window_number", "WindowNumber", "window", "folioWindow"),
		TransactionID:   normalize.Str(m, "transactionId", "transaction_id", "TransactionId", "id", "Id", "trxId"),
		TransactionCode: code,
		Category:        normalize.FolioCategory(code, desc),
		Description:     desc,
		Amount:          normalize.F64(m, "amount", "Amount", "value", "Value", "grossAmount", "gross_amount", "total"),
		Currency:        normalize.Currency(normalize.Str(m, "currency", "Currency", "currencyCode", "currency_code")),
		PostDate:        normalize.Date(pick(m, "postDate", "post_date", "PostDate", "postingDate", "posting_date", "date", "Date", "ConsumedUtc")),
		CardLastFour:    normalize.CardLastFour(normalize.Str(m, "cardLastFour", "card_last_four", "last4", "cardNumber", "card_number")),
		AuthCode:        normalize.Str(m, "authCode", "auth_code", "AuthCode", "approvalCode", "approval_code"),
		Reference:       normalize.Str(m, "reference", "Reference", "ref", "referenceNumber", "reference_number"),
		Reversal:        isReversal(m),
		Quantity:        quantity,
	}
}

func isReversal(m map[string]any) bool {
	v, ok := normalize.Lookup(m, "reversal", "Reversal", "isReversal", "is_reversal", "reversed", "voided")
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true" || b == "Y" || b == "yes" || b == "1"
	default:
		return false
	}
}

// defaultGuest converts one vendor guest profile
func defaultGuest(m map[string]any) entity.GuestProfile {
	return entity.GuestProfile{
		GuestID:       normalize.Str(m, "guestId", "guest_id", "GuestId", "id", "Id", "profileId", "profile_id", "CustomerId"),
		Name:          nameOf(m, m),
		Email:         normalize.Str(m, "email", "Email", "emailAddress", "email_address"),
		Phone:         normalize.Phone(normalize.Str(m, "phone", "Phone", "phoneNumber", "phone_number", "telephone", "mobile")),
		Address:       normalize.Address(normalize.Map(m, "address", "Address")),
		LoyaltyNumber: normalize.Str(m, "loyaltyNumber", "loyalty_number", "LoyaltyNumber", "membershipNumber", "membership_number"),
		LoyaltyTier:   normalize.Str(m, "loyaltyTier", "loyalty_tier", "LoyaltyTier", "tier", "level"),
		TotalStays:    normalize.IntOf(m, "totalStays", "total_stays", "TotalStays", "stayCount", "stay_count", "visits"),
		TotalRevenue:  normalize.F64(m, "totalRevenue", "total_revenue", "TotalRevenue", "lifetimeValue", "lifetime_value", "totalSpend"),
		LastStayDate:  normalize.Date(pick(m, "lastStayDate", "last_stay_date", "LastStayDate", "lastVisit", "last_visit", "lastStay")),
	}
}

// defaultRate converts one vendor rate plan
func defaultRate(m map[string]any) entity.RatePlan {
	var roomTypes []string
	for _, v := range normalize.Slice(m, "roomTypes", "room_types", "RoomTypes", "applicableRoomTypes", "rooms") {
		if s := normalize.ToString(v); s != "" {
			roomTypes = append(roomTypes, s)
		}
	}
	return entity.RatePlan{
		RateCode:           normalize.Str(m, "rateCode", "rate_code", "RateCode", "code", "Code", "id", "Id"),
		Name:               normalize.Str(m, "name", "Name", "rateName", "rate_name", "ShortName"),
		Description:        normalize.Str(m, "description", "Description", "desc"),
		Category:           normalize.Str(m, "category", "Category", "rateCategory", "rate_category", "type"),
		BaseAmount:         normalize.F64(m, "baseAmount", "base_amount", "BaseAmount", "baseRate", "base_rate", "amount", "price", "Price"),
		Currency:           normalize.Currency(normalize.Str(m, "currency", "Currency", "currencyCode", "currency_code")),
		StartDate:          normalize.Date(pick(m, "startDate", "start_date", "StartDate", "validFrom", "valid_from")),
		EndDate:            normalize.Date(pick(m, "endDate", "end_date", "EndDate", "validTo", "valid_to", "validUntil")),
		RoomTypes:          roomTypes,
		CancellationPolicy: normalize.Str(m, "cancellationPolicy", "cancellation_policy", "CancellationPolicy", "cancelPolicy", "cancel_policy"),
	}
}
