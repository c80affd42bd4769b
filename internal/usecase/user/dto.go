package user

// UserInput represents the payload for creating or replacing a user.
// Phone and Address are optional; nil means "no value", not "leave unchanged".
type UserInput struct {
	Name    string  `validate:"notblank,min=2,max=100"`
	Email   string  `validate:"notblank,max=254,email"`
	Phone   *string `validate:"omitempty,max=15"`
	Address *string `validate:"omitempty,max=500"`
}
