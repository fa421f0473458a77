package rbac

// 授权谓词：纯函数，对闭合角色集合全定义；未知角色一律返回 false

// CanManageUsers 管理账号（列表/创建/编辑/邀请）
func CanManageUsers(r Role) bool {
	switch r {
	case RoleOwner, RoleCoOwner, RoleManager:
		return true
	}
	return false
}

// CanPromoteUsers 审批注册与角色晋升，仅 OWNER
func CanPromoteUsers(r Role) bool { return r == RoleOwner }

// CanPromoteTo 禁止产生第二个 OWNER
func CanPromoteTo(acting, target Role) bool {
	return acting == RoleOwner && target.IsValid() && target != RoleOwner
}

// CanAssignTask EMPLOYEE 只能派给自己，更高角色不受限
func CanAssignTask(acting Role, actorID, assigneeID uint) bool {
	if !acting.IsValid() {
		return false
	}
	if acting == RoleEmployee {
		return assigneeID == actorID
	}
	return true
}

// VisibleTo 可指派名单的角色过滤：等级 <= 请求者等级
func VisibleTo(viewer Role) []Role {
	lvl := Rank(viewer)
	out := make([]Role, 0, len(rank))
	for _, r := range All() {
		if Rank(r) <= lvl {
			out = append(out, r)
		}
	}
	return out
}
