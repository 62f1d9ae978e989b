package adapters

import (
	"context"

	"dispatch_backend/internal/feature/auth/usecase"
	jwtmw "dispatch_backend/internal/platform/jwt"
)

// tokenUserFinder はユーザーリポジトリをjwtmw.UserFinderに適合させます。
// 認証ミドルウェアがトークンのsubjectを実在のユーザーに解決するために使用します。
type tokenUserFinder struct {
	repo usecase.UserRepository
}

var _ jwtmw.UserFinder = (*tokenUserFinder)(nil)

// NewTokenUserFinder はtokenUserFinderの新しいインスタンスを生成します。
func NewTokenUserFinder(repo usecase.UserRepository) *tokenUserFinder {
	return &tokenUserFinder{repo: repo}
}

// FindByID はIDでユーザーを検索し、IDとメールアドレスを返します。
func (f *tokenUserFinder) FindByID(ctx context.Context, id uint) (uint, string, error) {
	u, err := f.repo.FindByID(ctx, id)
	if err != nil {
		return 0, "", err
	}
	return u.ID, u.Email, nil
}
