// Package service implements the business logic layer.
package service

// ServiceConfig service layer configuration.
type ServiceConfig struct {
	User UserServiceConfig
	App  AppServiceConfig
}

// UserServiceConfig user service configuration.
type UserServiceConfig struct {
	RegisterIsEnable bool
}

// AppServiceConfig app service configuration.
type AppServiceConfig struct {
	// SoftDeleteRetentionTime controls how long deleted documents are
	// kept before the cleanup task purges them. Formats like 7d, 24h,
	// 30m; empty or 0 disables the cleanup.
	SoftDeleteRetentionTime string
}
