package event

type Type string

const (
	TypeClientRestored Type = "client.restored"
	TypeClientPurged   Type = "client.purged"
)

type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
	ActorID   string      `json:"actor_id,omitempty"`
}

// RestorationPayload travels with TypeClientRestored events and carries
// everything the notification fan-out needs.
type RestorationPayload struct {
	ClientID    string `json:"client_id"`
	CompanyName string `json:"company_name"`
	RestoredBy  string `json:"restored_by"`
	Reason      string `json:"reason"`
}

// PurgePayload travels with TypeClientPurged events.
type PurgePayload struct {
	ClientID    string `json:"client_id"`
	CompanyName string `json:"company_name"`
	PurgedBy    string `json:"purged_by"`
	Reason      string `json:"reason"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
