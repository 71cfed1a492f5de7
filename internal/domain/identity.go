package domain

// Identity is the authenticated customer record cached by the session store.
// Absence of a valid session token means the caller is anonymous regardless
// of any cached record.
type Identity struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Email        string `json:"email,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	Address      string `json:"address,omitempty"`
	Activated    bool   `json:"activated"`
}
