package entity

type Mail struct {
	From    string
	To      []string
	Subject string
	Body    string
}
