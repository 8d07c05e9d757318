package user

// Principal identifies an authenticated caller as confirmed by the account
// service. It carries no authorization data; prediction ownership is the
// only access rule in this system.
type Principal struct {
	UserID      string
	DisplayName string
}

// User is the profile row referenced by leaderboard entries.
type User struct {
	ID          string
	DisplayName string
}
