package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	// ContextUserKey 认证中间件写入的JWT声明
	ContextUserKey = "user"
	// HeaderUserID 非JWT调用方用于标识用户
	HeaderUserID = "X-User-Id"
)
