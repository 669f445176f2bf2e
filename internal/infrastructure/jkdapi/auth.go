package jkdapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/yourusername/order-sheet-sync/internal/domain/apperr"
	"github.com/yourusername/order-sheet-sync/internal/domain/constants"
	"github.com/yourusername/order-sheet-sync/internal/domain/entity"
	"github.com/yourusername/order-sheet-sync/internal/domain/repository"
	"github.com/yourusername/order-sheet-sync/pkg/logger"
)

// AuthService login qilish va sessiyani transportga bog'lash
type AuthService struct {
	client *Client
	log    *logger.Logger
}

// NewAuthService yangi auth service yaratish
func NewAuthService(client *Client, log *logger.Logger) repository.AuthGateway {
	if log == nil {
		log = logger.Default()
	}
	return &AuthService{client: client, log: log}
}

// Login authenticates with obfuscated credentials and installs the token
// on the shared transport.
func (a *AuthService) Login(ctx context.Context, username, password string) (*entity.Session, error) {
	form := url.Values{}
	form.Set("un", encodeCredential(username))
	form.Set("pw", encodeCredential(password))

	env, err := a.client.PostForm(ctx, constants.LoginPath, form)
	if err != nil {
		a.log.Errorf("login failed: %v", err)
		return nil, err
	}
	if env.Code != 200 {
		msg := env.Msg
		if msg == "" {
			msg = "登录失败"
		}
		return nil, &apperr.RemoteError{StatusCode: env.Code, Message: msg}
	}

	var user entity.UserInfo
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return nil, &apperr.TransportError{Err: fmt.Errorf("decode login data: %w", err)}
	}
	if user.Token == "" {
		return nil, &apperr.RemoteError{StatusCode: env.Code, Message: "登录失败"}
	}

	session := &entity.Session{
		Token:     user.Token,
		User:      user,
		CreatedAt: time.Now(),
	}
	a.client.SetToken(session.Token)
	a.log.Infof("login ok: %s", user.RealName)
	return session, nil
}

// encodeCredential is the backend's reversible text transform: UTF-8 bytes
// base64-encoded. Not cryptography; kept bit-compatible with the service
// contract.
func encodeCredential(input string) string {
	return base64.StdEncoding.EncodeToString([]byte(input))
}
