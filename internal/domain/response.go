package domain

// Response is the uniform result envelope returned by every identity
// workflow operation. Data carries either a field->message map for
// validation failures or an operation-specific payload.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OK builds a success envelope.
func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail builds a failure envelope.
func Fail(message string, data any) Response {
	return Response{Success: false, Message: message, Data: data}
}

// LoginResult is the outcome of a login attempt. On success it carries the
// session token plus echoed profile fields.
type LoginResult struct {
	Username  string `json:"username,omitempty"`
	Token     string `json:"token,omitempty"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role,omitempty"`
}

// LoginFailure builds a failed login result echoing the attempted username.
func LoginFailure(username, message string) LoginResult {
	return LoginResult{Username: username, Success: false, Message: message}
}
