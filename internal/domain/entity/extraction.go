package entity

import "strings"

// ExtractedRecord is the structured result of one vision/OCR call over a
// single scanned document. Every field is optional: an empty or
// whitespace-only string means the document did not carry that field.
type ExtractedRecord struct {
	Name              string `json:"name,omitempty" bson:"name,omitempty"`
	PassportNumber    string `json:"passportNumber,omitempty" bson:"passportNumber,omitempty"`
	DateOfBirth       string `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Nationality       string `json:"nationality,omitempty" bson:"nationality,omitempty"`
	PassportIssueDate string `json:"passportIssueDate,omitempty" bson:"passportIssueDate,omitempty"`
	ExpiryDate        string `json:"expiryDate,omitempty" bson:"expiryDate,omitempty"`
	VisaType          string `json:"visaType,omitempty" bson:"visaType,omitempty"`
	FlightNumber      string `json:"flightNumber,omitempty" bson:"flightNumber,omitempty"`
	BookingReference  string `json:"bookingReference,omitempty" bson:"bookingReference,omitempty"`
	TicketNumber      string `json:"ticketNumber,omitempty" bson:"ticketNumber,omitempty"`
	Departure         string `json:"departure,omitempty" bson:"departure,omitempty"`
	Arrival           string `json:"arrival,omitempty" bson:"arrival,omitempty"`
	TransitStop       string `json:"transitStop,omitempty" bson:"transitStop,omitempty"`
	SeatNumber        string `json:"seatNumber,omitempty" bson:"seatNumber,omitempty"`
	InflightMeal      string `json:"inflightMeal,omitempty" bson:"inflightMeal,omitempty"`
	DocumentType      string `json:"documentType,omitempty" bson:"documentType,omitempty"`
}

// Trimmed returns the field value with surrounding whitespace removed
func Trimmed(value string) string {
	return strings.TrimSpace(value)
}

// Present reports whether a field carries a value after trimming
func Present(value string) bool {
	return strings.TrimSpace(value) != ""
}

// IsEmpty reports whether the record carries no field at all
func (r ExtractedRecord) IsEmpty() bool {
	return !Present(r.Name) && !Present(r.PassportNumber) && !Present(r.DateOfBirth) &&
		!Present(r.Nationality) && !Present(r.PassportIssueDate) && !Present(r.ExpiryDate) &&
		!Present(r.VisaType) && !Present(r.FlightNumber) && !Present(r.BookingReference) &&
		!Present(r.TicketNumber) && !Present(r.Departure) && !Present(r.Arrival) &&
		!Present(r.TransitStop) && !Present(r.SeatNumber) && !Present(r.InflightMeal) &&
		!Present(r.DocumentType)
}
