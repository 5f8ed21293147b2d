package types

// Identity is the authenticated user a session belongs to. Records stamp
// Identity.ID into their author field.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}
