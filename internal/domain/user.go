package domain

type UserRepository interface {
	CreateUser(user *User) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetUserByID(id int) (*User, error)
	UpdateUser(id int, updates map[string]interface{}) (*User, error)
	ListUsers() ([]User, error)
}
