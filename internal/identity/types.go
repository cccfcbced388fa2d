package identity

// User is the identity service's view of an authenticated identity.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the token bundle issued by the identity service on sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// apiError covers the error payload shapes the identity service emits.
type apiError struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
	Msg         string `json:"msg"`
}

func (e apiError) message() string {
	if e.Description != "" {
		return e.Description
	}
	if e.Msg != "" {
		return e.Msg
	}
	return e.Code
}
