package response

type Image struct {
	FileName    string  `json:"file_name"`
	Description *string `json:"description,omitempty"`
}

type Error struct {
	Error string `json:"error"`
}
