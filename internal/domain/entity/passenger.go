package entity

// PassengerRecord is the consolidated identity of one traveler, merged from
// one or more extracted document records. It carries the same field set as
// ExtractedRecord so a consolidated list can be fed back through
// consolidation unchanged.
type PassengerRecord ExtractedRecord

// FromExtracted starts a passenger record as a copy of one document record
func FromExtracted(record ExtractedRecord) PassengerRecord {
	return PassengerRecord(record)
}

// AsExtracted views the passenger record as a document-shaped record
func (p PassengerRecord) AsExtracted() ExtractedRecord {
	return ExtractedRecord(p)
}
