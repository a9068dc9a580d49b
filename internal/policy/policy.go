// Package policy 回答两类独立的权限问题：
// 1. 页面级路由访问（角色 → 允许的路径）
// 2. 报警处理权限（角色 + 单元类型 → 允许/拒绝）
//
// 两张表都是静态全量表。查不到的情况按设计采用 fail-open 默认值
// （显示控件、由后端做最终裁决），不是遗漏——重构时不要"修复"为 fail-closed。
package policy

import (
	"wisefido-monitor/internal/models"
)

// CardIndex 设备到卡片的反查接口
// 由监控轮询在每个周期用最新快照重建（见 monitor 包）
type CardIndex interface {
	CardByDevice(deviceID string) (*models.MonitorCard, bool)
}

// pageRoles 页面路由权限表（精确匹配）
// 与 owlFront 管理控制台的路由一一对应；表中没有的路径对所有已登录角色开放
var pageRoles = map[string][]models.Role{
	"/admin/tenants":   {models.RoleSystemAdmin},
	"/admin/roles":     {models.RoleSystemAdmin, models.RoleAdmin},
	"/admin/users":     {models.RoleSystemAdmin, models.RoleAdmin, models.RoleManager, models.RoleIT},
	"/admin/units":     {models.RoleAdmin, models.RoleManager, models.RoleIT},
	"/admin/devices":   {models.RoleAdmin, models.RoleManager, models.RoleIT},
	"/admin/residents": {models.RoleAdmin, models.RoleManager, models.RoleNurse},
	"/admin/alarms":    {models.RoleAdmin, models.RoleManager, models.RoleNurse, models.RoleCaregiver},
	"/monitor":         {models.RoleAdmin, models.RoleManager, models.RoleIT, models.RoleNurse, models.RoleCaregiver},
}

// monitorExcludedRoles 不运行声音监控的角色
// 平台级运维角色没有监控界面，Start 对它们是无效操作（不报错）
var monitorExcludedRoles = map[models.Role]bool{
	models.RoleSystemAdmin:    true,
	models.RoleSystemOperator: true,
}

// facilityHandlerRoles Facility 单元允许处理报警的角色
var facilityHandlerRoles = map[models.Role]bool{
	models.RoleNurse:     true,
	models.RoleCaregiver: true,
}

// FacilityDenialReason Facility 单元拒绝处理时的提示文案
// 唯一的否定分支才有文案；所有 fail-open 分支返回空串
const FacilityDenialReason = "Only Nurse and Caregiver can handle alarms in Facility units"

// CanAccessPage 页面访问权限
// 路径精确匹配 pageRoles 表；表中不存在的路径对所有角色开放（fail-open 默认）
func CanAccessPage(role models.Role, path string) bool {
	roles, ok := pageRoles[path]
	if !ok {
		// fail-open：未登记的路径不做客户端拦截
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanRunMonitor 该角色是否运行声音监控
func CanRunMonitor(role models.Role) bool {
	return !monitorExcludedRoles[role]
}

// CanHandleAlarm 报警处理权限
// 三个显式的 fail-open 分支（设计如此，均有测试断言）：
//  1. 报警没有可追溯的设备引用 → 允许
//  2. 设备反查不到卡片（快照未加载）→ 允许
//  3. 卡片单元类型未知 → 允许
//
// 能解析到卡片时：Facility 只允许 Nurse/Caregiver，Home 允许所有角色
func CanHandleAlarm(role models.Role, alarm models.CardAlarm, index CardIndex) bool {
	if alarm.DeviceID == "" {
		// fail-open：无设备引用的报警无法定位单元，不做客户端拦截
		return true
	}

	card, ok := index.CardByDevice(alarm.DeviceID)
	if !ok || card == nil {
		// fail-open：卡片尚未加载，乐观放行
		return true
	}

	switch card.UnitType {
	case models.UnitTypeFacility:
		return facilityHandlerRoles[role]
	case models.UnitTypeHome:
		return true
	default:
		// fail-open：未知单元类型
		return true
	}
}

// HandleDenialReason 返回拒绝处理的提示文案
// 仅在唯一的否定分支（Facility 单元 + 非护理角色）返回非空串
func HandleDenialReason(role models.Role, alarm models.CardAlarm, index CardIndex) string {
	if CanHandleAlarm(role, alarm, index) {
		return ""
	}
	return FacilityDenialReason
}
