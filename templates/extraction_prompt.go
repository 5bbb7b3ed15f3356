package templates

import (
	"fmt"
	"strings"
)

// ExtractionPrompt instructs the vision service to return exactly the field
// set the consolidation pipeline understands. Field names must stay in sync
// with entity.ExtractedRecord.
const ExtractionPrompt = `You are reading a scanned travel document (passport, visa or flight ticket).
Extract the following fields and return a single JSON object with exactly these keys,
using an empty string for anything not present on the document:
name, passportNumber, dateOfBirth, nationality, passportIssueDate, expiryDate,
visaType, flightNumber, bookingReference, ticketNumber, departure, arrival,
transitStop, seatNumber, inflightMeal, documentType.

Rules:
- documentType is one of: passport, visa, ticket, other.
- Copy names exactly as printed, including the MRZ form with '/' between two names if present.
- Dates must be copied as printed; do not reformat them.
- Return only the JSON object, no commentary.`

// BuildExtractionPrompt appends the filename hint when one is available
func BuildExtractionPrompt(filename string) string {
	if strings.TrimSpace(filename) == "" {
		return ExtractionPrompt
	}
	return fmt.Sprintf("%s\n\nThe uploaded file is named %q.", ExtractionPrompt, filename)
}
