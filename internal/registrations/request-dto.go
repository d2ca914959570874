package registrations

// RegisterRequest represents the request body for creating a registration
type RegisterRequest struct {
	EventID  string `json:"event_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// ListQuery represents query parameters for listing registrations
type ListQuery struct {
	Limit  int `form:"limit,default=10" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}
