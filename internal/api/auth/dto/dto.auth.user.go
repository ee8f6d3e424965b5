package authdto

// UserCreateInput đầu vào tạo người dùng (CRUD, chỉ admin).
type UserCreateInput struct {
	Name     string `json:"name" validate:"required,no_xss"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
}

// UserUpdateInput đầu vào cập nhật người dùng (CRUD).
type UserUpdateInput struct {
	Name      string `json:"name,omitempty" validate:"omitempty,no_xss"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// RegisterInput đầu vào đăng ký tài khoản.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,no_xss"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
}

// LoginInput đầu vào đăng nhập bằng email + password.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Hwid     string `json:"hwid" validate:"required"`
}

// LoginResult kết quả đăng nhập trả về cho client.
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expiresAt"`
	User      interface{} `json:"user"`
}

// UserLogoutInput đầu vào đăng xuất người dùng.
type UserLogoutInput struct {
	Hwid string `json:"hwid" validate:"required"`
}

// UserChangeInfoInput đầu vào thay đổi thông tin người dùng.
type UserChangeInfoInput struct {
	Name      string `json:"name,omitempty" validate:"omitempty,no_xss"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// UserChangePasswordInput đầu vào đổi mật khẩu.
type UserChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strong_password"`
}

// BlockUserInput đầu vào khóa người dùng.
type BlockUserInput struct {
	Email string `json:"email" validate:"required,email"`
	Note  string `json:"note" validate:"required"`
}

// UnBlockUserInput đầu vào mở khóa người dùng.
type UnBlockUserInput struct {
	Email string `json:"email" validate:"required,email"`
}
