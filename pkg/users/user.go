package users

import (
	"encoding/json"
	"fmt"
)

// User is the record served by the Users resource. ID is nil until the
// record has been created.
type User struct {
	ID       *int   `json:"id,omitempty"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// New returns a user without an ID.
func New(email, username, password string) User {
	return User{Email: email, Username: username, Password: password}
}

// WithID returns a copy of u carrying id.
func (u User) WithID(id int) User {
	u.ID = &id
	return u
}

// HasID reports whether the user has been assigned an ID.
func (u User) HasID() bool {
	return u.ID != nil
}

// IDValue returns the ID, or 0 when unset.
func (u User) IDValue() int {
	if u.ID == nil {
		return 0
	}
	return *u.ID
}

// Decode parses a single user record.
func Decode(data []byte) (User, error) {
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return User{}, fmt.Errorf("failed to decode user: %w", err)
	}
	return u, nil
}

// DecodeList parses a JSON array of user records.
func DecodeList(data []byte) ([]User, error) {
	var list []User
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode user list: %w", err)
	}
	return list, nil
}

// MustJSON encodes u, panicking on failure. User always encodes.
func (u User) MustJSON() []byte {
	data, err := json.Marshal(u)
	if err != nil {
		panic(err)
	}
	return data
}
