package utility

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hash mật khẩu bằng bcrypt (cost mặc định).
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword so sánh mật khẩu thô với hash đã lưu.
// Trả về nil nếu khớp.
func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
