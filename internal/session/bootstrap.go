package session

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	congregationmodels "field_service/internal/api/congregation/models"
	"field_service/internal/logger"

	"github.com/sirupsen/logrus"
)

// BootstrapState là kết quả resolve phiên làm việc của admin.
// Unauthorized và CongregationNotFound là hai trạng thái kết thúc duy nhất -
// mọi lỗi khác đều không phá trạng thái trước đó của người gọi.
type BootstrapState struct {
	Unauthorized         bool
	CongregationNotFound bool

	Roles                []RoleGrant
	AccessByCongregation map[primitive.ObjectID]string

	Congregation   *congregationmodels.Congregation
	AccessLevel    string
	HouseholdTypes []HouseholdTypeEntry
	Territories    *TerritoryCollection
	HasMaps        bool
}

// HouseholdTypeEntry là hình chiếu loại hộ cho client.
type HouseholdTypeEntry struct {
	ID          primitive.ObjectID
	Code        string
	Description string
	Sequence    int
}

// Resolver dựng phiên làm việc admin theo thứ tự cố định: role trước,
// congregation sau, rồi mới đến dữ liệu phụ thuộc. Bước sau chỉ chạy khi
// bước trước hoàn tất.
type Resolver struct {
	store    Store
	cache    Cache
	notifier Notifier
}

// NewResolver tạo resolver với các phụ thuộc inject.
func NewResolver(store Store, cache Cache, notifier Notifier) *Resolver {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Resolver{store: store, cache: cache, notifier: notifier}
}

// congregationCacheKey và territoryCacheKey ghép khóa cache theo user.
func congregationCacheKey(userID primitive.ObjectID) string {
	return CacheKeyCongregation + ":" + userID.Hex()
}

func territoryCacheKey(userID primitive.ObjectID) string {
	return CacheKeyTerritory + ":" + userID.Hex()
}

// Resolve thực hiện trình tự bootstrap cho một user.
//
//  1. Lấy role kèm thông tin congregation.
//  2. Không có role nào: trạng thái unauthorized, báo lỗi, dừng hẳn.
//  3. Chọn congregation ban đầu: ưu tiên id đã cache nếu còn trong danh sách
//     quyền, không thì lấy entry đầu; cache cũ bị xóa.
//  4. Nạp chi tiết congregation (không thấy: trạng thái not-found, dừng),
//     loại hộ theo sequence, khu vực theo code; khôi phục khu vực đã cache
//     nếu còn hợp lệ trong tập vừa nạp.
//  5. Kiểm tra congregation có bản đồ nào không.
func (r *Resolver) Resolve(ctx context.Context, userID primitive.ObjectID) (*BootstrapState, error) {
	log := logger.GetAppLogger()
	state := &BootstrapState{}

	roles, err := r.store.RolesForUser(ctx, userID)
	if err != nil {
		r.notifier.Error(fmt.Sprintf("Không tải được quyền truy cập: %v", err))
		return nil, err
	}
	if len(roles) == 0 {
		// Không còn fetch nào nữa - unauthorized là trạng thái kết thúc.
		state.Unauthorized = true
		r.notifier.Error("Tài khoản chưa được gán hội thánh nào")
		return state, nil
	}

	state.Roles = roles
	state.AccessByCongregation = make(map[primitive.ObjectID]string, len(roles))
	for _, g := range roles {
		state.AccessByCongregation[g.CongregationID] = g.AccessLevel
	}

	chosen := roles[0].CongregationID
	if r.cache != nil {
		if cached, ok := r.cache.Get(congregationCacheKey(userID)); ok {
			cachedID, parseErr := primitive.ObjectIDFromHex(cached)
			if parseErr == nil {
				if _, accessible := state.AccessByCongregation[cachedID]; accessible {
					chosen = cachedID
				} else {
					// Cache trỏ congregation user không còn quyền - xóa và dùng entry đầu.
					r.cache.Delete(congregationCacheKey(userID))
				}
			} else {
				r.cache.Delete(congregationCacheKey(userID))
			}
		}
	}

	congregation, err := r.store.CongregationDetail(ctx, chosen)
	if err != nil {
		r.notifier.Error(fmt.Sprintf("Không tải được thông tin hội thánh: %v", err))
		return nil, err
	}
	if congregation == nil {
		state.CongregationNotFound = true
		r.notifier.Warning("Hội thánh đã chọn không còn tồn tại")
		return state, nil
	}
	state.Congregation = congregation
	state.AccessLevel = state.AccessByCongregation[chosen]

	householdTypes, err := r.store.HouseholdTypes(ctx, chosen)
	if err != nil {
		r.notifier.Error(fmt.Sprintf("Không tải được danh sách loại hộ: %v", err))
		return nil, err
	}
	state.HouseholdTypes = make([]HouseholdTypeEntry, 0, len(householdTypes))
	for _, ht := range householdTypes {
		state.HouseholdTypes = append(state.HouseholdTypes, HouseholdTypeEntry{
			ID:          ht.ID,
			Code:        ht.Code,
			Description: ht.Description,
			Sequence:    ht.Sequence,
		})
	}

	territories, err := r.store.Territories(ctx, chosen)
	if err != nil {
		r.notifier.Error(fmt.Sprintf("Không tải được danh sách khu vực: %v", err))
		return nil, err
	}
	collection := NewTerritoryCollection(r.notifier, r.cache, territoryCacheKey(userID))
	collection.Process(territories)
	state.Territories = collection

	if r.cache != nil {
		if cached, ok := r.cache.Get(territoryCacheKey(userID)); ok {
			restored := false
			if cachedID, parseErr := primitive.ObjectIDFromHex(cached); parseErr == nil {
				restored = collection.Select(cachedID)
			}
			if !restored {
				r.cache.Delete(territoryCacheKey(userID))
			}
		}
	}

	territoryIDs := make([]primitive.ObjectID, 0, len(territories))
	for _, t := range territories {
		territoryIDs = append(territoryIDs, t.ID)
	}
	if len(territoryIDs) == 0 {
		state.HasMaps = false
	} else {
		hasMaps, err := r.store.HasAnyMap(ctx, territoryIDs)
		if err != nil {
			r.notifier.Error(fmt.Sprintf("Không kiểm tra được bản đồ: %v", err))
			return nil, err
		}
		state.HasMaps = hasMaps
	}

	if r.cache != nil {
		r.cache.Set(congregationCacheKey(userID), chosen.Hex())
	}

	log.WithFields(logrus.Fields{
		"userId":         userID.Hex(),
		"congregationId": chosen.Hex(),
		"territories":    len(territories),
		"hasMaps":        state.HasMaps,
	}).Info("💬 [SESSION] Bootstrap hoàn tất")
	return state, nil
}
