package custody

// User is an identity record. Users are immutable after creation; there is no
// update path.
type User struct {
	Username     string
	PasswordHash string
	Role         Role
}
