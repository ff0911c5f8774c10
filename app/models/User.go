package models

type User struct {
	Id       string `pg:",pk" json:"id"`
	Email    string `pg:",unique" json:"email"`
	Password string `json:"-"` // bcrypt hash
}

type UserDto struct {
	Email string `json:"email"`
	Pass  string `json:"pass"`
}
