package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"travelscan-service/internal/domain/entity"
	"travelscan-service/pkg/names"
)

func newTestConsolidator() *Consolidator {
	normalizer := names.NewNormalizer(nil)
	matcher := names.NewMatcher(normalizer, names.PolicyStrictFirstToken)
	return NewConsolidator(matcher)
}

func TestConsolidateMergesByPassportNumber(t *testing.T) {
	c := newTestConsolidator()

	records := []entity.ExtractedRecord{
		{Name: "John Smith", PassportNumber: "P1", DateOfBirth: "1990-03-15"},
		{Name: "J Smith", PassportNumber: "P1", FlightNumber: "AA100"},
	}

	passengers := c.Consolidate(records)
	require.Len(t, passengers, 1)
	require.Equal(t, "John Smith", passengers[0].Name)
	require.Equal(t, "P1", passengers[0].PassportNumber)
	require.Equal(t, "1990-03-15", passengers[0].DateOfBirth)
	require.Equal(t, "AA100", passengers[0].FlightNumber)
}

func TestConsolidateDistinctPassportsStaySeparate(t *testing.T) {
	c := newTestConsolidator()

	records := []entity.ExtractedRecord{
		{Name: "John Smith", PassportNumber: "P1"},
		{Name: "John Smith", PassportNumber: "P2"},
	}

	passengers := c.Consolidate(records)
	require.Len(t, passengers, 2)
	require.Equal(t, "P1", passengers[0].PassportNumber)
	require.Equal(t, "P2", passengers[1].PassportNumber)
}

func TestConsolidateMatchesByNameWithoutPassport(t *testing.T) {
	c := newTestConsolidator()

	records := []entity.ExtractedRecord{
		{Name: "Maria Garcia Lopez", FlightNumber: "BA1"},
		{Name: "Maria Garcia", FlightNumber: "BA2"},
	}

	passengers := c.Consolidate(records)
	require.Len(t, passengers, 1)
	require.Equal(t, "BA2", passengers[0].FlightNumber)
}

func TestConsolidateNameMatchFillsPassport(t *testing.T) {
	c := newTestConsolidator()

	records := []entity.ExtractedRecord{
		{Name: "Maria Garcia Lopez", SeatNumber: "12A"},
		{Name: "MS Maria Garcia Lopez", PassportNumber: "X9", Nationality: "ES"},
	}

	passengers := c.Consolidate(records)
	require.Len(t, passengers, 1)
	require.Equal(t, "X9", passengers[0].PassportNumber)
	require.Equal(t, "ES", passengers[0].Nationality)
	require.Equal(t, "12A", passengers[0].SeatNumber)
	// the passport-carrying document supplies the name
	require.Equal(t, "MS Maria Garcia Lopez", passengers[0].Name)
}

func TestConsolidateIdentityFieldsFirstWinItineraryLastWins(t *testing.T) {
	c := newTestConsolidator()

	records := []entity.ExtractedRecord{
		{Name: "Adam West", PassportNumber: "P1", DateOfBirth: "1970-01-01", Departure: "JKT", Arrival: "SIN"},
		{Name: "Adam West", PassportNumber: "P1", DateOfBirth: "1971-02-02", Departure: "SIN", Arrival: "NRT", VisaType: "Tourist"},
	}

	passengers := c.Consolidate(records)
	require.Len(t, passengers, 1)
	require.Equal(t, "1970-01-01", passengers[0].DateOfBirth)
	require.Equal(t, "SIN", passengers[0].Departure)
	require.Equal(t, "NRT", passengers[0].Arrival)
	require.Equal(t, "Tourist", passengers[0].VisaType)
}

func TestConsolidateSkipsRecordsWithoutIdentity(t *testing.T) {
	c := newTestConsolidator()

	records := []entity.ExtractedRecord{
		{FlightNumber: "GA200", SeatNumber: "1A"},
		{Name: "John Smith", PassportNumber: "P1"},
	}

	passengers := c.Consolidate(records)
	require.Len(t, passengers, 2)
	require.Equal(t, "GA200", passengers[0].FlightNumber)
	require.Equal(t, "John Smith", passengers[1].Name)
}

func TestConsolidatePreservesFirstContributionOrder(t *testing.T) {
	c := newTestConsolidator()

	records := []entity.ExtractedRecord{
		{Name: "Alpha One", PassportNumber: "A"},
		{Name: "Beta Two", PassportNumber: "B"},
		{Name: "Alpha One", PassportNumber: "A", SeatNumber: "3C"},
		{Name: "Gamma Three", PassportNumber: "C"},
	}

	passengers := c.Consolidate(records)
	require.Len(t, passengers, 3)
	require.Equal(t, "A", passengers[0].PassportNumber)
	require.Equal(t, "B", passengers[1].PassportNumber)
	require.Equal(t, "C", passengers[2].PassportNumber)
	require.Equal(t, "3C", passengers[0].SeatNumber)
}

func TestConsolidateIsIdempotentOverItsOwnOutput(t *testing.T) {
	c := newTestConsolidator()

	records := []entity.ExtractedRecord{
		{Name: "John Smith", PassportNumber: "P1", DateOfBirth: "1990-03-15"},
		{Name: "Smith John", PassportNumber: "P1", FlightNumber: "AA100"},
		{Name: "Maria Garcia Lopez", FlightNumber: "BA1"},
		{Name: "MS Maria Garcia", FlightNumber: "BA2", SeatNumber: "7F"},
		{Name: "Rita Desai", PassportNumber: "Z1"},
	}

	once := c.Consolidate(records)

	again := make([]entity.ExtractedRecord, 0, len(once))
	for _, p := range once {
		again = append(again, p.AsExtracted())
	}

	require.Equal(t, once, c.Consolidate(again))
}

func TestConsolidateEmptyInput(t *testing.T) {
	c := newTestConsolidator()
	require.Empty(t, c.Consolidate(nil))
}
