package payload

// CategoryRequest is the body of category create and rename operations.
type CategoryRequest struct {
	Category string `json:"category" validate:"required"`
}
