package auth

import (
	"context"

	"github.com/rushteam/innermatch/core"
)

// AllowAll 是占位鉴权器：无条件放行。
// 对应参考行为中的占位登录检查，调用方不应假设凭证被真正校验。
// 需要真实鉴权时请替换为 CELAuthorizer 或自行实现 core.Authorizer。
type AllowAll struct{}

func NewAllowAll() *AllowAll { return &AllowAll{} }

func (a *AllowAll) Name() string { return "allow_all" }

func (a *AllowAll) Authorize(ctx context.Context, owner, credential, session string) (bool, error) {
	return true, nil
}

var _ core.Authorizer = (*AllowAll)(nil)
