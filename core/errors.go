package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Store 错误：NOT_FOUND, STORAGE_FAILURE
//   - Auth 错误：UNAUTHORIZED
//   - Ranker 错误：DIMENSION_MISMATCH, INVALID_INPUT, NOT_INITIALIZED
type DomainError struct {
	Code    string // 错误代码（如 "DIMENSION_MISMATCH", "UNAUTHORIZED"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "ranker", "auth"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound          = "NOT_FOUND"          // 资源不存在
	ErrorCodeUnauthorized      = "UNAUTHORIZED"       // 访问未授权
	ErrorCodeDimensionMismatch = "DIMENSION_MISMATCH" // 向量/矩阵维度不一致
	ErrorCodeNotInitialized    = "NOT_INITIALIZED"    // 模型尚未初始化
	ErrorCodeInvalidInput      = "INVALID_INPUT"      // 输入无效
	ErrorCodeStorageFailure    = "STORAGE_FAILURE"    // 底层存储读写失败
)

// 模块名称常量
const (
	ModuleStore  = "store"  // 存储模块
	ModuleAuth   = "auth"   // 鉴权模块
	ModuleRanker = "ranker" // 排序/学习模块
	ModuleModel  = "model"  // 权重矩阵模块
	ModuleFeast  = "feast"  // 特征/向量来源模块
)

// 通用错误检查函数

// IsUnauthorized 检查错误是否为 UNAUTHORIZED
func IsUnauthorized(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnauthorized
	}
	return false
}

// IsDimensionMismatch 检查错误是否为 DIMENSION_MISMATCH
func IsDimensionMismatch(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeDimensionMismatch
	}
	return false
}

// IsNotInitialized 检查错误是否为 NOT_INITIALIZED
func IsNotInitialized(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotInitialized
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}

// IsStorageFailure 检查错误是否为 STORAGE_FAILURE
func IsStorageFailure(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeStorageFailure
	}
	return false
}
