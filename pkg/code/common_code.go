package code

// Common codes.
var (
	Success = NewSuss(0, lang{en: "Success", zh_cn: "成功"})

	ErrorServerInternal  = NewError(10000000, lang{en: "Server internal error", zh_cn: "服务内部错误"})
	ErrorInvalidParams   = NewError(10000001, lang{en: "Invalid request parameters", zh_cn: "入参错误"})
	ErrorNotFoundAPI     = NewError(10000002, lang{en: "API not found", zh_cn: "找不到接口"})
	ErrorTooManyRequests = NewError(10000003, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorDBQuery         = NewError(10000004, lang{en: "Database query error", zh_cn: "数据库查询错误"})
	ErrorTimeout         = NewError(10000005, lang{en: "Request timeout", zh_cn: "请求超时"})
)

// User and auth codes.
var (
	ErrorNotUserAuthToken     = NewError(20000001, lang{en: "Not authenticated", zh_cn: "未登录认证"})
	ErrorInvalidUserAuthToken = NewError(20000002, lang{en: "Invalid or expired token", zh_cn: "登录认证无效或已过期"})
	ErrorUserAlreadyExists    = NewError(20000003, lang{en: "Username already in use", zh_cn: "用户名已被使用"})
	ErrorUserEmailExists      = NewError(20000004, lang{en: "Email already in use", zh_cn: "邮箱已被使用"})
	ErrorUserNotExists        = NewError(20000005, lang{en: "Invalid credentials", zh_cn: "用户名或密码错误"})
	ErrorUserPasswordError    = NewError(20000006, lang{en: "Invalid credentials", zh_cn: "用户名或密码错误"})
	ErrorUserPasswordNotMatch = NewError(20000007, lang{en: "Passwords do not match", zh_cn: "两次输入的密码不一致"})
	ErrorUserUsernameNotValid = NewError(20000008, lang{en: "Username is not valid", zh_cn: "用户名不合法"})
	ErrorUserRegisterDisabled = NewError(20000009, lang{en: "Registration is disabled", zh_cn: "注册已关闭"})
)

// Document codes.
var (
	ErrorDocumentNotFound      = NewError(30000001, lang{en: "Document not found", zh_cn: "文档不存在"})
	ErrorDocumentKindInvalid   = NewError(30000002, lang{en: "Document kind must be folder or note", zh_cn: "文档类型必须是 folder 或 note"})
	ErrorDocumentParentInvalid = NewError(30000003, lang{en: "Target parent is not an owned folder", zh_cn: "目标父级不是当前用户的文件夹"})
	ErrorDocumentMoveCycle     = NewError(30000004, lang{en: "A folder cannot be moved into its own subtree", zh_cn: "文件夹不能移动到自己的子树中"})
	// Reserved for a future optimistic-concurrency check; nothing returns it yet.
	ErrorDocumentConflict = NewError(30000005, lang{en: "Document was modified concurrently", zh_cn: "文档已被并发修改"})
)
