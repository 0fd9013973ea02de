package chat

// Role identifies who authored a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the conversation history exchanged with the backend.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserTurn builds a user-authored turn.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn builds an assistant-authored turn.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// Source is a citation returned alongside an answer. Clients only read Title.
type Source struct {
	ID    ID     `json:"id,omitempty"`
	Title string `json:"title"`
}

// Request is the body of POST /chat.
type Request struct {
	Query               string `json:"query"`
	ConversationHistory []Turn `json:"conversation_history"`
}

// Response is the body returned by POST /chat on success.
type Response struct {
	Response string   `json:"response"`
	Sources  []Source `json:"sources"`
}
