package core

import "context"

// Authorizer 是访问门禁的领域接口。
//
// Rank / Feedback 在任何存储 I/O 之前都会先调用 Authorize；
// 门禁拒绝时操作立即以 UNAUTHORIZED 终止，不产生任何读写。
//
// 参考实现 auth.AllowAll 无条件放行（占位实现，调用方不应假设凭证强度），
// 需要真实鉴权时可替换为 auth.CELAuthorizer 或自行实现此接口，
// 排序/学习逻辑无需改动。
type Authorizer interface {
	// Name 返回鉴权器名称（用于日志/监控）
	Name() string

	// Authorize 校验 (owner, credential, session) 是否可访问对应模型
	Authorize(ctx context.Context, owner, credential, session string) (bool, error)
}

// ErrUnauthorized 表示门禁拒绝了本次调用
var ErrUnauthorized = NewDomainError(ModuleAuth, ErrorCodeUnauthorized, "auth: unauthorized (check credentials)")
