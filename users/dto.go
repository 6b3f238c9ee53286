package users

// MeResponse is the body of GET /me.
// @Description The authenticated user
type MeResponse struct {
	Username string `json:"username" example:"alice"`
}
