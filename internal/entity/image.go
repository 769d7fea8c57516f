package entity

// ImageRecord is the table projection of one stored object.
type ImageRecord struct {
	FileName    string  `json:"file_name" dynamodbav:"FileName"`
	Description *string `json:"description,omitempty" dynamodbav:"Description,omitempty"`
}
