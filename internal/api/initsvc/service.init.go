// Package initsvc chứa InitService dùng để khởi tạo dữ liệu ban đầu (admin, congregation, household types).
// Tách ra package riêng để tránh import cycle giữa auth/service và các domain service.
package initsvc

import (
	"context"
	"errors"
	"fmt"

	authmodels "field_service/internal/api/auth/models"
	authsvc "field_service/internal/api/auth/service"
	basesvc "field_service/internal/api/base/service"
	congregationmodels "field_service/internal/api/congregation/models"
	congregationsvc "field_service/internal/api/congregation/service"
	"field_service/internal/common"
	"field_service/internal/global"
	"field_service/internal/logger"
	"field_service/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InitService là cấu trúc chứa các phương thức khởi tạo dữ liệu ban đầu cho hệ thống.
// Bao gồm tạo user admin, congregation mặc định và bộ household type mẫu.
type InitService struct {
	userService          *authsvc.UserService                 // Service xử lý người dùng
	userRoleService      *authsvc.UserRoleService             // Service xử lý vai trò người dùng trong congregation
	congregationService  *congregationsvc.CongregationService // Service xử lý congregation
	householdTypeService *congregationsvc.HouseholdTypeService
}

// NewInitService tạo mới một đối tượng InitService.
// Đồng thời đăng ký callback kiểm tra admin cho base service (tránh import cycle base -> auth).
func NewInitService() (*InitService, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}

	userRoleService, err := authsvc.NewUserRoleService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user role service: %v", err)
	}

	congregationService, err := congregationsvc.NewCongregationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create congregation service: %v", err)
	}

	householdTypeService, err := congregationsvc.NewHouseholdTypeService()
	if err != nil {
		return nil, fmt.Errorf("failed to create household type service: %v", err)
	}

	basesvc.SetIsAdminFromContextFunc(authsvc.IsUserAdministratorFromContext)

	return &InitService{
		userService:          userService,
		userRoleService:      userRoleService,
		congregationService:  congregationService,
		householdTypeService: householdTypeService,
	}, nil
}

// DefaultHouseholdTypes là bộ loại hộ mẫu gán cho congregation mặc định khi tạo lần đầu.
// Congregation thật sẽ tự chỉnh sửa qua API household type.
var DefaultHouseholdTypes = []congregationmodels.HouseholdType{
	{Code: "NH", Description: "Nhà riêng", Sequence: 1},
	{Code: "CC", Description: "Căn hộ chung cư", Sequence: 2},
	{Code: "CH", Description: "Cửa hàng", Sequence: 3},
	{Code: "VP", Description: "Văn phòng", Sequence: 4},
	{Code: "TR", Description: "Phòng trọ", Sequence: 5},
}

// defaultCongregationName tên congregation tạo sẵn khi database còn trống.
const defaultCongregationName = "Hội thánh mặc định"

// InitAdminUser tạo user admin từ cấu hình ADMIN_EMAIL/ADMIN_PASSWORD nếu chưa tồn tại.
// Trả về user admin (mới tạo hoặc đã có sẵn).
func (h *InitService) InitAdminUser(email, password string) (*authmodels.User, error) {
	ctx := basesvc.WithSystemDataInsertAllowed(context.TODO())

	existing, err := h.userService.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": email}, nil)
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check admin user: %v", err)
	}

	hashed, err := utility.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %v", err)
	}

	admin := authmodels.User{
		Name:          "Administrator",
		Email:         email,
		Password:      hashed,
		EmailVerified: true,
	}
	created, err := h.userService.BaseServiceMongoImpl.InsertOne(ctx, admin)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user: %v", err)
	}

	logger.GetAppLogger().Infof("🔄 [INIT] Đã tạo user admin %s", created.Email)
	return &created, nil
}

// InitDefaultCongregation tạo congregation mặc định khi database chưa có congregation nào.
// Trả về congregation mặc định, hoặc nil nếu đã có congregation khác (không cần seed).
func (h *InitService) InitDefaultCongregation() (*congregationmodels.Congregation, error) {
	ctx := basesvc.WithSystemDataInsertAllowed(context.TODO())

	count, err := h.congregationService.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count congregations: %v", err)
	}
	if count > 0 {
		return nil, nil
	}

	congregation := congregationmodels.Congregation{
		Name:        defaultCongregationName,
		MaxTries:    congregationmodels.DefaultMaxTries,
		ExpiryHours: congregationmodels.DefaultExpiryHours,
	}
	created, err := h.congregationService.InsertOne(ctx, congregation)
	if err != nil {
		return nil, fmt.Errorf("failed to create default congregation: %v", err)
	}

	logger.GetAppLogger().Infof("🔄 [INIT] Đã tạo congregation mặc định (ID: %s)", created.ID.Hex())
	return &created, nil
}

// InitHouseholdTypes seed bộ loại hộ mẫu cho congregation, bỏ qua code đã tồn tại.
func (h *InitService) InitHouseholdTypes(congregationID primitive.ObjectID) error {
	ctx := basesvc.WithSystemDataInsertAllowed(context.TODO())

	for _, ht := range DefaultHouseholdTypes {
		filter := bson.M{"ownerCongregationId": congregationID, "code": ht.Code}
		_, err := h.householdTypeService.FindOne(ctx, filter, nil)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("failed to check household type %s: %v", ht.Code, err)
		}

		ht.OwnerCongregationID = congregationID
		if _, err := h.householdTypeService.InsertOne(ctx, ht); err != nil {
			return fmt.Errorf("failed to insert household type %s: %v", ht.Code, err)
		}
	}
	return nil
}

// EnsureAdminRole gán quyền administrator cho user trong congregation nếu chưa có role nào.
// Role đã tồn tại (bất kể access level) thì giữ nguyên, không ghi đè cấu hình của người dùng.
func (h *InitService) EnsureAdminRole(userID, congregationID primitive.ObjectID) error {
	ctx := basesvc.WithSystemDataInsertAllowed(context.TODO())

	filter := bson.M{"userId": userID, "congregationId": congregationID}
	_, err := h.userRoleService.FindOne(ctx, filter, nil)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check admin role: %v", err)
	}

	role := authmodels.UserRole{
		UserID:         userID,
		CongregationID: congregationID,
		AccessLevel:    authmodels.AccessLevelAdministrator,
	}
	if _, err := h.userRoleService.InsertOne(ctx, role); err != nil {
		return fmt.Errorf("failed to assign admin role: %v", err)
	}

	logger.GetAppLogger().Infof("🔄 [INIT] Đã gán quyền administrator cho user %s", userID.Hex())
	return nil
}

// firstCongregation lấy một congregation bất kỳ để gắn admin khi database đã có dữ liệu.
func (h *InitService) firstCongregation() (*congregationmodels.Congregation, error) {
	found, err := h.congregationService.FindOne(context.TODO(), bson.M{}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &found, nil
}

// InitData chạy toàn bộ chuỗi khởi tạo dữ liệu mặc định theo cấu hình server.
// Không có ADMIN_EMAIL thì bỏ qua toàn bộ (user đầu tiên tự tạo congregation khi đăng ký).
func (h *InitService) InitData() error {
	cfg := global.MongoDB_ServerConfig
	log := logger.GetAppLogger()

	if cfg == nil || cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Info("ℹ️  [INIT] ADMIN_EMAIL/ADMIN_PASSWORD chưa cấu hình, bỏ qua seed dữ liệu mặc định")
		return nil
	}

	admin, err := h.InitAdminUser(cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}

	congregation, err := h.InitDefaultCongregation()
	if err != nil {
		return err
	}
	if congregation == nil {
		// Database đã có congregation, chỉ đảm bảo admin có role ở một congregation
		congregation, err = h.firstCongregation()
		if err != nil {
			return fmt.Errorf("failed to find congregation for admin: %v", err)
		}
		if congregation == nil {
			return nil
		}
	} else {
		if err := h.InitHouseholdTypes(congregation.ID); err != nil {
			return err
		}
	}

	return h.EnsureAdminRole(admin.ID, congregation.ID)
}
