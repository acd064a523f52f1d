package dto

// RegisterReq represents the request body for the /register endpoint.
// Length limits mirror the users table and bcrypt's 72 byte input limit.
type RegisterReq struct {
	Username  string `json:"username" binding:"required,max=64"`
	Password  string `json:"password" binding:"required,max=72"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Phone     string `json:"phone" binding:"max=32"`
}
