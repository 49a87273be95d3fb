package kreno

import (
	"context"
	"net/http"

	"github.com/Freeeeeet/kreno_bot/internal/model"
)

const (
	loginEndpoint         = "login_api.php"
	updateProfileEndpoint = "update_profile_api.php"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type apiUser struct {
	UserID   flexString `json:"userId" validate:"required"`
	Email    string     `json:"email"`
	Username string     `json:"username"`
	FullName string     `json:"fullName"`
	Role     string     `json:"role"`
}

// Login проверяет учетные данные и возвращает контекст пользователя
func (c *Client) Login(ctx context.Context, email, password string) (model.User, error) {
	env, err := c.call(ctx, request{
		endpoint: loginEndpoint,
		method:   http.MethodPost,
		body:     loginRequest{Email: email, Password: password},
	})
	if err != nil {
		return model.User{}, err
	}

	raw, err := single[apiUser](c, env, "user")
	if err != nil {
		return model.User{}, err
	}

	return model.User{
		UserID:   raw.UserID.String(),
		Email:    raw.Email,
		Username: raw.Username,
		FullName: raw.FullName,
		Role:     raw.Role,
	}, nil
}

// ProfileUpdate изменяемые поля профиля; пустые поля не отправляются
type ProfileUpdate struct {
	UserID   string `json:"userId"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// UpdateProfile меняет email и/или пароль студента
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	_, err := c.call(ctx, request{endpoint: updateProfileEndpoint, method: http.MethodPost, body: update})
	return err
}
