package llm

// Conversation is the ordered, append-only message history for a single
// agent run. Messages are only ever appended, never reordered or deleted,
// so an assistant turn and the tool messages answering it always stay
// adjacent and in request order.
//
// A Conversation is owned by exactly one run and is not safe for
// concurrent use.
type Conversation struct {
	systemPrompt string
	messages     []Message
}

// NewConversation creates a conversation seeded with a system prompt.
// The system prompt is materialized as the first message when the
// conversation is rendered for the API.
func NewConversation(systemPrompt string) *Conversation {
	return &Conversation{
		systemPrompt: systemPrompt,
		messages:     make([]Message, 0),
	}
}

// Append adds a message verbatim to the end of the history
func (c *Conversation) Append(msg Message) {
	c.messages = append(c.messages, msg)
}

// AppendUser appends a user message with the given text
func (c *Conversation) AppendUser(content string) {
	c.Append(Message{Role: RoleUser, Content: content})
}

// AppendToolResult appends a tool message answering the tool call with the
// given id
func (c *Conversation) AppendToolResult(toolCallID, content string) {
	c.Append(Message{
		Role:       RoleTool,
		Content:    content,
		ToolCallID: toolCallID,
	})
}

// Messages renders the full history for the API, system prompt first.
// The returned slice is a copy; mutating it does not affect the
// conversation.
func (c *Conversation) Messages() []Message {
	messages := make([]Message, 0, len(c.messages)+1)
	if c.systemPrompt != "" {
		messages = append(messages, Message{
			Role:    RoleSystem,
			Content: c.systemPrompt,
		})
	}
	messages = append(messages, c.messages...)
	return messages
}

// Len returns the number of appended messages, excluding the system prompt
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Last returns the most recently appended message, if any
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}
