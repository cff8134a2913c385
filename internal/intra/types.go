package intra

// User is the profile returned by the intra /v2/me endpoint. Only the
// fields the application needs are decoded.
type User struct {
	ID        int    `json:"id"`
	Login     string `json:"login"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Image     struct {
		Link string `json:"link"`
	} `json:"image"`
	Campus []struct {
		Name string `json:"name"`
	} `json:"campus"`
}

// PrimaryCampus returns the user's first campus, or "" when none is listed.
func (u *User) PrimaryCampus() string {
	if len(u.Campus) == 0 {
		return ""
	}
	return u.Campus[0].Name
}
