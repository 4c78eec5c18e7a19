package event_bus

const (
	// FlyerExtracted is published after a flyer image has been run through the
	// vision model and the resulting record stored.
	FlyerExtracted EventType = "flyer.extracted"
	// CalendarExported is published after an ICS document has been generated.
	CalendarExported EventType = "calendar.exported"
)

type FlyerExtractedData struct {
	RecordID string
	Title    string
	// FieldsFound is the number of non-empty fields recovered from the model reply.
	FieldsFound int
}

type CalendarExportedData struct {
	Summary  string
	Filename string
}
