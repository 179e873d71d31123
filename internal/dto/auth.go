package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Code     string `json:"code"     binding:"required,notblank,max=50"`
	Password string `json:"password" binding:"required,max=72"`
}

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int          `json:"expiresIn"` // Access Token 有效期（秒）
	User        UserResponse `json:"user"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID         string  `json:"id"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Department *string `json:"department,omitempty"`
	Role       string  `json:"role"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}
