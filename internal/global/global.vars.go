package global

import (
	"field_service/config"
	"field_service/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	Users        string // Tên collection cho người dùng
	UserRoles    string // Tên collection cho vai trò người dùng trong hội thánh
	AccessTokens string // Tên collection cho token truy cập

	// Field Service Collections
	Congregations  string // Tên collection cho hội thánh
	HouseholdTypes string // Tên collection cho loại hộ gia đình
	Territories    string // Tên collection cho khu vực
	TerritoryMaps  string // Tên collection cho bản đồ thuộc khu vực
	MapUnits       string // Tên collection cho từng hộ trong bản đồ
	ShareLinks     string // Tên collection cho link chia sẻ bản đồ

	// Delivery System Collections
	DeliveryQueue   string // Tên collection cho delivery queue
	DeliveryHistory string // Tên collection cho delivery history
}

// Các biến toàn cục
var Validate *validator.Validate                                           // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                          // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration                             // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName = *new(MongoDB_CollectionName) // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
