// Package authsvc - service người dùng (User).
package authsvc

import (
	"context"
	"errors"
	"fmt"

	authdto "field_service/internal/api/auth/dto"
	models "field_service/internal/api/auth/models"
	basesvc "field_service/internal/api/base/service"
	"field_service/internal/common"
	"field_service/internal/global"
	"field_service/internal/utility"

	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
	tokenService *AccessTokenService
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}
	tokenService, err := NewAccessTokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to create access token service: %w", err)
	}

	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
		tokenService:         tokenService,
	}, nil
}

// Register đăng ký tài khoản mới bằng email + password.
func (s *UserService) Register(ctx context.Context, input *authdto.RegisterInput) (*models.User, error) {
	// Email đã tồn tại → conflict
	_, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": input.Email}, nil)
	if err == nil {
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Email đã được sử dụng", common.StatusConflict, nil)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hashed, err := utility.HashPassword(input.Password)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Lỗi hash mật khẩu", common.StatusInternalServerError, err)
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": created.ID.Hex(), "email": created.Email}).Info("🔐 [AUTH] Đăng ký tài khoản mới")
	return &created, nil
}

// Login đăng nhập bằng email + password, trả về JWT token.
func (s *UserService) Login(ctx context.Context, input *authdto.LoginInput) (*authdto.LoginResult, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": input.Email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsBlock {
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Tài khoản đã bị khóa: "+user.BlockNote, common.StatusForbidden, nil)
	}

	if err := utility.ComparePassword(user.Password, input.Password); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenService.IssueToken(ctx, &user, input.Hwid)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "hwid": input.Hwid}).Info("🔐 [AUTH] Đăng nhập thành công")
	return &authdto.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// Logout đăng xuất người dùng (thu hồi token theo hwid)
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID, input *authdto.UserLogoutInput) error {
	if err := s.tokenService.revokeByHwid(ctx, userID, input.Hwid); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": userID.Hex(), "hwid": input.Hwid}).Info("🔐 [AUTH] Đăng xuất")
	return nil
}

// ChangeInfo thay đổi thông tin hiển thị của người dùng
func (s *UserService) ChangeInfo(ctx context.Context, userID primitive.ObjectID, input *authdto.UserChangeInfoInput) (*models.User, error) {
	updateData := &basesvc.UpdateData{Set: make(map[string]interface{})}
	if input.Name != "" {
		updateData.Set["name"] = input.Name
	}
	if input.AvatarURL != "" {
		updateData.Set["avatarUrl"] = input.AvatarURL
	}
	if len(updateData.Set) == 0 {
		user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &user, nil
	}

	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ChangePassword đổi mật khẩu, yêu cầu mật khẩu cũ đúng.
// Toàn bộ token hiện có của user bị thu hồi sau khi đổi.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, input *authdto.UserChangePasswordInput) error {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return err
	}

	if err := utility.ComparePassword(user.Password, input.OldPassword); err != nil {
		return common.NewError(common.ErrCodeAuthCredentials, "Mật khẩu cũ không chính xác", common.StatusUnauthorized, nil)
	}

	hashed, err := utility.HashPassword(input.NewPassword)
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, "Lỗi hash mật khẩu", common.StatusInternalServerError, err)
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{"password": hashed},
	}
	if _, err := s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData); err != nil {
		return err
	}

	if err := s.tokenService.RevokeAllForUser(ctx, userID); err != nil {
		logrus.WithError(err).Warn("ChangePassword: Lỗi thu hồi token sau khi đổi mật khẩu")
	}

	logrus.WithFields(logrus.Fields{"user_id": userID.Hex()}).Info("🔐 [AUTH] Đổi mật khẩu")
	return nil
}

// BlockUser chặn hoặc bỏ chặn User dựa trên Email và trạng thái Block.
// Khi block, toàn bộ token của user bị thu hồi.
func (s *UserService) BlockUser(ctx context.Context, email string, block bool, note string) (*models.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": email}, nil)
	if err != nil {
		return nil, err
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"isBlock":   block,
			"blockNote": note,
		},
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		return nil, err
	}

	if block {
		if err := s.tokenService.RevokeAllForUser(ctx, user.ID); err != nil {
			logrus.WithError(err).Warn("BlockUser: Lỗi thu hồi token của user bị block")
		}
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "block": block}).Info("🔐 [AUTH] Thay đổi trạng thái block user")
	return &updatedUser, nil
}

// UnBlockUser mở khóa người dùng
func (s *UserService) UnBlockUser(ctx context.Context, email string) (*models.User, error) {
	return s.BlockUser(ctx, email, false, "")
}
