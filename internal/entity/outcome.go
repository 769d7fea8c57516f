package entity

type Outcome struct {
	MessageID string
	Key       string
	Kind      EventKind
	Status    Status
	Err       error
}

// BatchReport summarizes one processed batch. Redeliver holds the message
// ids the transport must not acknowledge.
type BatchReport struct {
	BatchID   string
	Total     int
	Applied   int
	Skipped   int
	Failed    int
	Redeliver []string
	Outcomes  []Outcome
}

func (r BatchReport) MustRedeliver(messageID string) bool {
	for _, id := range r.Redeliver {
		if id == messageID {
			return true
		}
	}

	return false
}
