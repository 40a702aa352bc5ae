package model

// PurgeConfirmationPhrase must be typed exactly to arm a permanent purge.
// It is a validation gate, not a security control; authorization is
// enforced separately through roles.
const PurgeConfirmationPhrase = "PURGE PERMANENTLY"

type RestoreRequest struct {
	Reason string `json:"reason"`
}

type PurgeRequest struct {
	Reason       string `json:"reason"`
	Confirmation string `json:"confirmation"`
}

type RestoreResponse struct {
	ClientID    string `json:"client_id"`
	CompanyName string `json:"company_name"`
	RestoredBy  string `json:"restored_by"`
}

type PurgeResponse struct {
	ClientID    string `json:"client_id"`
	CompanyName string `json:"company_name"`
	PurgedBy    string `json:"purged_by"`
}

type DeletedAccountListData struct {
	Items []DeletedAccount `json:"items"`
}

type TimelineData struct {
	ClientID string           `json:"client_id"`
	Events   []LifecycleEvent `json:"events"`
}

type RestorationListData struct {
	Items []RestorationRecord `json:"items"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
