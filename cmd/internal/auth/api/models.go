package authapi

import "playtube/cmd/identity"

type registerRequest struct {
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	FullName   string  `json:"fullName"`
	Password   string  `json:"password"`
	Avatar     *string `json:"avatar"`
	CoverImage *string `json:"coverImage"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type registerResponse struct {
	User identity.PublicAccount `json:"user"`
}

type loginResponse struct {
	User         identity.PublicAccount `json:"user"`
	AccessToken  string                 `json:"accessToken"`
	RefreshToken string                 `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type meResponse struct {
	User identity.PublicAccount `json:"user"`
}
