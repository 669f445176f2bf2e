package entity

import "time"

// UserInfo login javobidagi foydalanuvchi profili
type UserInfo struct {
	RealName string `json:"real_name"`
	Token    string `json:"token"`
}

// Session authenticated holat: token + profil
type Session struct {
	Token     string    `json:"token"`
	User      UserInfo  `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether the session carries a usable token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}
