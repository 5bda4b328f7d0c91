package apiclient

import (
	"context"
	"strings"

	"RentalNegotiator/internal/models"
)

func (c *Client) Signup(ctx context.Context, req models.SignupRequest) error {
	return c.post(ctx, "/member/create", req, nil)
}

// Login 은 토큰이 없는 응답을 ErrMissingToken 으로 돌려준다.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.post(ctx, "/member/doLogin", req, &resp); err != nil {
		return models.LoginResponse{}, err
	}
	if strings.TrimSpace(resp.Token) == "" {
		return models.LoginResponse{}, ErrMissingToken
	}
	return resp, nil
}

func (c *Client) Profile(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	err := c.get(ctx, "/member/profile", nil, &p)
	return p, err
}

func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.Profile, error) {
	var p models.Profile
	err := c.put(ctx, "/member/profile", update, &p)
	return p, err
}

// ProfileSetting 은 온보딩 단계의 최초 프로필 설정이다.
func (c *Client) ProfileSetting(ctx context.Context, update models.ProfileUpdate) error {
	return c.post(ctx, "/member/profile/setting", update, nil)
}
