package auth

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/innermatch/core"
)

// CELAuthorizer 是基于 CEL (Common Expression Language) 的策略鉴权器。
// CEL 是 Google 开发的表达式语言，具有类型安全、高性能、线程安全等特性。
//
// 表达式可访问三个变量：owner / credential / session（均为 string）。
//
// 示例：
//   - `credential != ""` → 只要求凭证非空
//   - `owner == "alice" && session.startsWith("prod_")` → 限定用户与会话前缀
//   - `credential == "secret"` → 固定口令（仅用于演示）
//
// 表达式在构造时编译一次，之后的 Authorize 调用只做求值。
type CELAuthorizer struct {
	expr string
	prg  cel.Program
}

// NewCELAuthorizer 编译策略表达式并创建鉴权器。
// 表达式必须返回布尔值，编译失败时返回错误。
func NewCELAuthorizer(expr string) (*CELAuthorizer, error) {
	env, err := cel.NewEnv(
		cel.Variable("owner", cel.StringType),
		cel.Variable("credential", cel.StringType),
		cel.Variable("session", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	return &CELAuthorizer{expr: expr, prg: prg}, nil
}

func (a *CELAuthorizer) Name() string { return "cel" }

// Authorize 对 (owner, credential, session) 求值策略表达式。
func (a *CELAuthorizer) Authorize(ctx context.Context, owner, credential, session string) (bool, error) {
	out, _, err := a.prg.Eval(map[string]interface{}{
		"owner":      owner,
		"credential": credential,
		"session":    session,
	})
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

var _ core.Authorizer = (*CELAuthorizer)(nil)
