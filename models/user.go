package models

import "time"

// User is a registered account for the mobile app.
type User struct {
	ID             string    `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Product is the identity resolved from a barcode lookup.
type Product struct {
	Brand      string                 `json:"brand"`
	Name       string                 `json:"name"`
	Quantity   string                 `json:"quantity"`
	Nutriments map[string]interface{} `json:"nutriments"`
}
