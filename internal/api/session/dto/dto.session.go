// Package sessiondto - DTO cho domain phiên làm việc.
package sessiondto

// PositionInput là một fix vị trí do client đẩy lên.
type PositionInput struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// RoleView là một quyền truy cập congregation trong snapshot phiên.
type RoleView struct {
	CongregationID   string `json:"congregationId"`
	CongregationName string `json:"congregationName"`
	AccessLevel      string `json:"accessLevel"`
}

// HouseholdTypeView là một loại hộ trong snapshot phiên.
type HouseholdTypeView struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Sequence    int    `json:"sequence"`
}

// TerritoryView là một khu vực trong snapshot phiên.
type TerritoryView struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name,omitempty"`
	Progress  float64 `json:"progress"`
	HasBounds bool    `json:"hasBounds"`
}

// MapView là một bản đồ trong danh sách của phiên, theo đúng thứ tự hiển thị.
type MapView struct {
	ID           string  `json:"id"`
	TerritoryID  string  `json:"territoryId"`
	Sequence     int     `json:"sequence"`
	Type         string  `json:"type"`
	Name         string  `json:"name,omitempty"`
	Location     string  `json:"location,omitempty"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Progress     float64 `json:"progress"`
	NotDoneCount int     `json:"notDoneCount"`
	NotHomeCount int     `json:"notHomeCount"`
}

// Snapshot là trạng thái phiên trả về cho client sau khi mở hoặc truy vấn.
type Snapshot struct {
	SessionID            string `json:"sessionId"`
	Unauthorized         bool   `json:"unauthorized,omitempty"`
	CongregationNotFound bool   `json:"congregationNotFound,omitempty"`

	CongregationID   string              `json:"congregationId,omitempty"`
	CongregationName string              `json:"congregationName,omitempty"`
	AccessLevel      string              `json:"accessLevel,omitempty"`
	Roles            []RoleView          `json:"roles,omitempty"`
	HouseholdTypes   []HouseholdTypeView `json:"householdTypes,omitempty"`
	Territories      []TerritoryView     `json:"territories,omitempty"`
	SelectedID       string              `json:"selectedTerritoryId,omitempty"`
	HasMaps          bool                `json:"hasMaps"`
}
