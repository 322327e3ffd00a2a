package core

// Role is the kind of participant a client speaks as.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleSystem   Role = "system"
)

// Client is a chat participant as seen by the core layer.
type Client struct {
	ID       string
	Role     Role
	Commands chan *Command
	Events   chan *Event
	Rooms    map[string]struct{}

	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string, role Role) *Client {
	if role == "" {
		role = RoleCustomer
	}
	return &Client{
		ID:       id,
		Role:     role,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
		Rooms:    make(map[string]struct{}),
		done:     make(chan struct{}),
	}
}
