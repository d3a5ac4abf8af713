package authapi

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// statusResponse is the body of GET and PUT /login.
type statusResponse struct {
	LoggedIn bool   `json:"loggedIn"`
	Token    string `json:"token,omitempty"`
	Message  string `json:"message,omitempty"`
}
