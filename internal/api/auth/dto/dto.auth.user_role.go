package authdto

// UserRoleCreateInput đầu vào gán role cho user trong một congregation.
type UserRoleCreateInput struct {
	UserID         string `json:"userId" validate:"required" transform:"str_objectid"`
	CongregationID string `json:"congregationId" validate:"required" transform:"str_objectid"`
	AccessLevel    string `json:"accessLevel" validate:"required,access_level"`
}

// UserRoleUpdateInput đầu vào cập nhật mức truy cập của một role.
type UserRoleUpdateInput struct {
	AccessLevel string `json:"accessLevel" validate:"required,access_level"`
}
