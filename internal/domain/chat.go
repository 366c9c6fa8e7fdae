package domain

type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=2000"`
	SessionID string `json:"sessionId,omitempty"`
}

type ChatProduct struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Price       float64  `json:"price"`
	OldPrice    float64  `json:"oldprice,omitempty"`
	Images      []string `json:"images"`
	Description string   `json:"description,omitempty"`
}

type ChatReply struct {
	Reply         string        `json:"reply"`
	SessionID     string        `json:"sessionId"`
	HistoryLength int           `json:"historyLength"`
	Products      []ChatProduct `json:"products,omitempty"`
}
