package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Gender values match the enum the clients send.
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// Role is resolved from the account's flag pair when a token is issued.
// A freshly registered doctor is unendorsed until an admin promotes them.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleDoctor     Role = "doctor"
	RoleUnendorsed Role = "unendorsed"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	IsDoctor       bool               `bson:"isDoctor" json:"isDoctor"`
	IsAdmin        bool               `bson:"isAdmin" json:"isAdmin"`
	Specialization string             `bson:"specialization" json:"specialization"`
	Gender         string             `bson:"gender" json:"gender"`
	Phone          string             `bson:"phone" json:"phone"`
}

// Role maps the stored flags to the tagged role carried in token claims.
// Admin wins if an account somehow carries both flags.
func (u *User) Role() Role {
	switch {
	case u.IsAdmin:
		return RoleAdmin
	case u.IsDoctor:
		return RoleDoctor
	default:
		return RoleUnendorsed
	}
}
