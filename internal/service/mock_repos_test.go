package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/clover-eric/fenzu-hw/internal/model"
	"github.com/clover-eric/fenzu-hw/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks map[string]*model.Task
	order []string
	seq   int
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	if task.TaskID == "" {
		m.seq++
		task.TaskID = fmt.Sprintf("task-%d", m.seq)
	}
	m.tasks[task.TaskID] = task
	m.order = append(m.order, task.TaskID)
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) GetLatest(_ context.Context) (*model.Task, error) {
	for i := len(m.order) - 1; i >= 0; i-- {
		if t, ok := m.tasks[m.order[i]]; ok {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) List(_ context.Context) ([]model.Task, error) {
	var result []model.Task
	for i := len(m.order) - 1; i >= 0; i-- {
		if t, ok := m.tasks[m.order[i]]; ok {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.Task) error {
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.tasks[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.tasks, id)
	return nil
}

// ── Mock GroupRepository ──

type mockGroupRepo struct {
	groups  map[string]*model.Group
	order   []string
	members *mockMemberRepo
	seq     int
}

func newMockGroupRepo(members *mockMemberRepo) *mockGroupRepo {
	return &mockGroupRepo{groups: make(map[string]*model.Group), members: members}
}

func (m *mockGroupRepo) Create(_ context.Context, group *model.Group) error {
	if group.GroupID == "" {
		m.seq++
		group.GroupID = fmt.Sprintf("group-%d", m.seq)
	}
	m.groups[group.GroupID] = group
	m.order = append(m.order, group.GroupID)
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id string) (*model.Group, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) GetUngrouped(_ context.Context) (*model.Group, error) {
	for _, id := range m.order {
		if g, ok := m.groups[id]; ok && g.IsUngrouped {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) ListWithMembers(ctx context.Context) ([]model.Group, error) {
	var result []model.Group
	for _, id := range m.order {
		g, ok := m.groups[id]
		if !ok {
			continue
		}
		cp := *g
		cp.Members, _ = m.members.ListByGroup(ctx, g.GroupID)
		result = append(result, cp)
	}
	return result, nil
}

func (m *mockGroupRepo) ListRegularNames(_ context.Context) ([]string, error) {
	var names []string
	for _, id := range m.order {
		if g, ok := m.groups[id]; ok && !g.IsUngrouped {
			names = append(names, g.Name)
		}
	}
	return names, nil
}

func (m *mockGroupRepo) Update(_ context.Context, group *model.Group) error {
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockGroupRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.groups[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.groups, id)
	return nil
}

func (m *mockGroupRepo) DeleteAll(_ context.Context) error {
	m.groups = make(map[string]*model.Group)
	m.order = nil
	return nil
}

// ── Mock MemberRepository ──

type mockMemberRepo struct {
	members map[string]*model.GroupMember
	order   []string
	users   *mockUserRepo
	seq     int
}

func newMockMemberRepo(users *mockUserRepo) *mockMemberRepo {
	return &mockMemberRepo{members: make(map[string]*model.GroupMember), users: users}
}

func (m *mockMemberRepo) Create(_ context.Context, member *model.GroupMember) error {
	if member.MemberID == "" {
		m.seq++
		member.MemberID = fmt.Sprintf("member-%d", m.seq)
	}
	m.members[member.MemberID] = member
	m.order = append(m.order, member.MemberID)
	return nil
}

func (m *mockMemberRepo) GetByID(ctx context.Context, id string) (*model.GroupMember, error) {
	member, ok := m.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *member
	if u, err := m.users.GetByID(ctx, member.UserID); err == nil {
		cp.User = u
	}
	return &cp, nil
}

func (m *mockMemberRepo) GetByUserID(_ context.Context, userID string) (*model.GroupMember, error) {
	for _, id := range m.order {
		if mm, ok := m.members[id]; ok && mm.UserID == userID {
			return mm, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) ExistsInGroup(ctx context.Context, groupID, username string) (bool, error) {
	for _, mm := range m.members {
		if mm.GroupID != groupID {
			continue
		}
		if u, err := m.users.GetByID(ctx, mm.UserID); err == nil && u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockMemberRepo) ListByGroup(ctx context.Context, groupID string) ([]model.GroupMember, error) {
	var result []model.GroupMember
	for _, id := range m.order {
		mm, ok := m.members[id]
		if !ok || mm.GroupID != groupID {
			continue
		}
		cp := *mm
		if u, err := m.users.GetByID(ctx, mm.UserID); err == nil {
			cp.User = u
		}
		result = append(result, cp)
	}
	return result, nil
}

func (m *mockMemberRepo) CountByGroup(_ context.Context, groupID string) (int64, error) {
	var n int64
	for _, mm := range m.members {
		if mm.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

func (m *mockMemberRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.members)), nil
}

func (m *mockMemberRepo) CountCompleted(_ context.Context) (int64, error) {
	var n int64
	for _, mm := range m.members {
		if mm.Status {
			n++
		}
	}
	return n, nil
}

func (m *mockMemberRepo) Update(_ context.Context, member *model.GroupMember) error {
	m.members[member.MemberID] = member
	return nil
}

func (m *mockMemberRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.members[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.members, id)
	return nil
}

func (m *mockMemberRepo) DeleteByGroup(_ context.Context, groupID string) error {
	for id, mm := range m.members {
		if mm.GroupID == groupID {
			delete(m.members, id)
		}
	}
	return nil
}

func (m *mockMemberRepo) DeleteAll(_ context.Context) error {
	m.members = make(map[string]*model.GroupMember)
	m.order = nil
	return nil
}

// ── 测试辅助 ──

// mockRepos 聚合所有 mock 仓储，db 为空时 Transaction 直接执行 fn
type mockRepos struct {
	users   *mockUserRepo
	tasks   *mockTaskRepo
	groups  *mockGroupRepo
	members *mockMemberRepo
	repo    *repository.Repository
}

func newMockRepos() *mockRepos {
	users := newMockUserRepo()
	members := newMockMemberRepo(users)
	groups := newMockGroupRepo(members)
	tasks := newMockTaskRepo()
	return &mockRepos{
		users:   users,
		tasks:   tasks,
		groups:  groups,
		members: members,
		repo: &repository.Repository{
			User:   users,
			Task:   tasks,
			Group:  groups,
			Member: members,
		},
	}
}

// addGroup 快捷添加小组
func (m *mockRepos) addGroup(name string, ungrouped bool) *model.Group {
	g := &model.Group{Name: name, IsUngrouped: ungrouped}
	_ = m.groups.Create(context.Background(), g)
	return g
}

// addStudent 快捷添加学生账号并挂入指定小组
func (m *mockRepos) addStudent(username, groupID string) *model.GroupMember {
	u := &model.User{Username: username, PasswordHash: "x"}
	_ = m.users.Create(context.Background(), u)
	mm := &model.GroupMember{GroupID: groupID, UserID: u.UserID}
	_ = m.members.Create(context.Background(), mm)
	return mm
}
