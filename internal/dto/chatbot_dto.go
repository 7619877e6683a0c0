package dto

// ChatbotAskRequest carries one user question for the external workflow.
type ChatbotAskRequest struct {
	Question string `json:"question" validate:"required,min=1,max=2000"`
}

// ChatbotAskResponse relays the workflow's textual reply.
type ChatbotAskResponse struct {
	Answer string `json:"answer"`
}
