package usecase

import (
	"travelscan-service/internal/domain/entity"
	"travelscan-service/pkg/names"
)

// Consolidator folds per-document extraction records into one record per
// passenger. Passport number is the primary identity key; fuzzy name matching
// is the fallback. The fold is a single synchronous pass over in-memory data
// and never fails, whatever shape the input records have.
type Consolidator struct {
	matcher *names.Matcher
}

// NewConsolidator creates a consolidator using the given name matcher
func NewConsolidator(matcher *names.Matcher) *Consolidator {
	return &Consolidator{matcher: matcher}
}

// Consolidate processes records strictly in input order and returns one
// passenger per distinct traveler, in first-contribution order.
func (c *Consolidator) Consolidate(records []entity.ExtractedRecord) []entity.PassengerRecord {
	passengers := make([]entity.PassengerRecord, 0, len(records))

	for _, item := range records {
		idx := c.findMatch(passengers, item)
		if idx < 0 {
			passengers = append(passengers, entity.FromExtracted(item))
			continue
		}
		merge(&passengers[idx], item)
	}
	return passengers
}

// findMatch returns the index of the existing passenger the record belongs
// to, or -1. Passport lookup runs first; name matching only applies when no
// passport matched and never bridges two distinct passport numbers.
func (c *Consolidator) findMatch(passengers []entity.PassengerRecord, item entity.ExtractedRecord) int {
	itemPassport := entity.Trimmed(item.PassportNumber)
	if itemPassport != "" {
		for i := range passengers {
			if entity.Trimmed(passengers[i].PassportNumber) == itemPassport {
				return i
			}
		}
	}

	if entity.Trimmed(item.Name) == "" {
		return -1
	}

	for i := range passengers {
		candidatePassport := entity.Trimmed(passengers[i].PassportNumber)
		if itemPassport != "" && candidatePassport != "" && itemPassport != candidatePassport {
			// Distinct passport numbers are conclusive proof of
			// distinct identity, whatever the names say.
			continue
		}
		if c.matcher.Match(passengers[i].Name, item.Name) {
			return i
		}
	}
	return -1
}

// merge updates a passenger in place with one more document record.
// Identity and biographic fields keep their first value; itinerary fields
// take the latest, since later documents in upload order carry more current
// trip data. The name prefers whichever side came with a passport number:
// passport-sourced names are cleaner than ticket-sourced ones.
func merge(passenger *entity.PassengerRecord, item entity.ExtractedRecord) {
	switch {
	case entity.Present(passenger.PassportNumber) && entity.Present(passenger.Name):
		// keep the accumulated name
	case entity.Present(item.PassportNumber) && entity.Present(item.Name):
		passenger.Name = item.Name
	case !entity.Present(passenger.Name):
		passenger.Name = item.Name
	}

	firstWins(&passenger.PassportNumber, item.PassportNumber)
	firstWins(&passenger.DateOfBirth, item.DateOfBirth)
	firstWins(&passenger.Nationality, item.Nationality)
	firstWins(&passenger.PassportIssueDate, item.PassportIssueDate)
	firstWins(&passenger.ExpiryDate, item.ExpiryDate)

	lastWins(&passenger.VisaType, item.VisaType)
	lastWins(&passenger.FlightNumber, item.FlightNumber)
	lastWins(&passenger.BookingReference, item.BookingReference)
	lastWins(&passenger.TicketNumber, item.TicketNumber)
	lastWins(&passenger.Departure, item.Departure)
	lastWins(&passenger.Arrival, item.Arrival)
	lastWins(&passenger.TransitStop, item.TransitStop)
	lastWins(&passenger.SeatNumber, item.SeatNumber)
	lastWins(&passenger.InflightMeal, item.InflightMeal)
	lastWins(&passenger.DocumentType, item.DocumentType)
}

func firstWins(existing *string, incoming string) {
	if !entity.Present(*existing) && entity.Present(incoming) {
		*existing = incoming
	}
}

func lastWins(existing *string, incoming string) {
	if entity.Present(incoming) {
		*existing = incoming
	}
}
