package models

// Wire format for the chat relay. Every frame is a JSON object with a
// discriminating "event" field; fields not used by an event stay empty.
type RelayEvent struct {
	Event    string            `json:"event"`
	ID       string            `json:"id,omitempty"`
	From     string            `json:"from,omitempty"`
	To       string            `json:"to,omitempty"`
	Body     string            `json:"body,omitempty"`
	Users    []string          `json:"users,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

const (
	EventNewConnection = "new_connection"
	EventUserList      = "user_list"
	EventDirectMessage = "direct_message"
	EventWhois         = "whois"
	EventWhoisResult   = "whois_result"
	EventExit          = "exit"
)
