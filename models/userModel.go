package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	FirstName      string               `bson:"firstName" json:"firstName" validate:"required,min=1,max=100"`
	LastName       string               `bson:"lastName" json:"lastName" validate:"required,min=1,max=100"`
	Email          string               `bson:"email" json:"email" validate:"required,email"`
	HashedPassword string               `bson:"hashedPassword" json:"-"`
	Profile        string               `bson:"profile,omitempty" json:"profile,omitempty" validate:"omitempty,url"`
	Companies      []primitive.ObjectID `bson:"companies" json:"companies"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// FullName joins first and last name the way order listings display a customer.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// BelongsTo reports whether the user is a member of the company.
func (u *User) BelongsTo(companyID primitive.ObjectID) bool {
	return containsID(u.Companies, companyID)
}

// TruncatedUser is the public subset of a user shown next to orders.
type TruncatedUser struct {
	Name    string `json:"name"`
	Profile string `json:"profile"`
}

// Truncate returns the public subset of the user.
func (u *User) Truncate() TruncatedUser {
	return TruncatedUser{Name: u.FullName(), Profile: u.Profile}
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
