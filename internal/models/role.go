package models

// Role 角色代码（对应 roles 表的 role_code，系统预定义角色为闭集）
// 角色在会话期间不可变：角色变更需要重新登录（重新 Start 监控）
type Role string

const (
	RoleSystemAdmin    Role = "SystemAdmin"
	RoleAdmin          Role = "Admin"
	RoleManager        Role = "Manager"
	RoleIT             Role = "IT"
	RoleNurse          Role = "Nurse"
	RoleCaregiver      Role = "Caregiver"
	RoleResident       Role = "Resident"
	RoleFamily         Role = "Family"
	RoleSystemOperator Role = "SystemOperator"
)

// AllRoles 返回全部系统预定义角色
func AllRoles() []Role {
	return []Role{
		RoleSystemAdmin,
		RoleAdmin,
		RoleManager,
		RoleIT,
		RoleNurse,
		RoleCaregiver,
		RoleResident,
		RoleFamily,
		RoleSystemOperator,
	}
}

// IsValid 检查是否为已知角色代码
func (r Role) IsValid() bool {
	switch r {
	case RoleSystemAdmin, RoleAdmin, RoleManager, RoleIT,
		RoleNurse, RoleCaregiver, RoleResident, RoleFamily, RoleSystemOperator:
		return true
	}
	return false
}
