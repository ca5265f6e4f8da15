package models

// User is the authenticated identity handed to us by Firebase Auth.
// The UID doubles as the user's Firestore document ID; the remaining fields
// are informational claims pulled from the verified ID token.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}
