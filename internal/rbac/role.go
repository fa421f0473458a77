package rbac

import "fmt"

// Role 团队角色，闭合集合，按等级排序
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleTeamLead Role = "TEAM_LEAD"
	RoleManager  Role = "MANAGER"
	RoleCoOwner  Role = "CO_OWNER"
	RoleOwner    Role = "OWNER"
)

// rank 等级表，数字越大权限越高；未知角色为 0
var rank = map[Role]int{
	RoleEmployee: 1,
	RoleTeamLead: 2,
	RoleManager:  3,
	RoleCoOwner:  4,
	RoleOwner:    5,
}

func (r Role) IsValid() bool { return rank[r] > 0 }

// Rank 返回角色等级；未知角色返回 0
func Rank(r Role) int { return rank[r] }

// ParseRole 边界解析：非法字符串在进入谓词之前就被拒绝
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// All 按等级升序返回全部角色
func All() []Role {
	return []Role{RoleEmployee, RoleTeamLead, RoleManager, RoleCoOwner, RoleOwner}
}
