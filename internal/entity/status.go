package entity

type Status string

const (
	Applied Status = "applied"
	Skipped Status = "skipped"
	Failed  Status = "failed"
)
