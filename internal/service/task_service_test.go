package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/clover-eric/fenzu-hw/internal/dto"
)

// ── 测试辅助 ──

func setupTestTaskService() (TaskService, *mockRepos) {
	repos := newMockRepos()
	svc := NewTaskService(repos.repo, zap.NewNop())
	return svc, repos
}

func strPtr(s string) *string { return &s }

// ── Create 测试 ──

func TestTaskService_Create_Success(t *testing.T) {
	svc, _ := setupTestTaskService()

	result, err := svc.Create(context.Background(), &dto.CreateTaskRequest{
		Title:    "第一次作业",
		Content:  "<p>完成课后习题</p>",
		Deadline: "2026-09-15T23:59",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Title != "第一次作业" {
		t.Errorf("期望Title=第一次作业，实际=%s", result.Title)
	}
	if result.Deadline != "2026-09-15 23:59" {
		t.Errorf("期望Deadline=2026-09-15 23:59，实际=%s", result.Deadline)
	}
}

func TestTaskService_Create_NoDeadline(t *testing.T) {
	svc, _ := setupTestTaskService()

	result, err := svc.Create(context.Background(), &dto.CreateTaskRequest{
		Title:   "无截止作业",
		Content: "内容",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Deadline != "" {
		t.Errorf("期望Deadline为空，实际=%s", result.Deadline)
	}
}

func TestTaskService_Create_InvalidDeadline(t *testing.T) {
	svc, _ := setupTestTaskService()

	_, err := svc.Create(context.Background(), &dto.CreateTaskRequest{
		Title:    "作业",
		Content:  "内容",
		Deadline: "2026/09/15",
	})
	if !errors.Is(err, ErrInvalidDeadline) {
		t.Errorf("期望 ErrInvalidDeadline，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestTaskService_Update_PartialFields(t *testing.T) {
	svc, _ := setupTestTaskService()

	created, err := svc.Create(context.Background(), &dto.CreateTaskRequest{
		Title:    "原标题",
		Content:  "原内容",
		Deadline: "2026-09-15T23:59",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 仅更新标题，其余字段保留
	result, err := svc.Update(context.Background(), created.TaskID, &dto.UpdateTaskRequest{
		Title: strPtr("新标题"),
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Title != "新标题" {
		t.Errorf("期望Title=新标题，实际=%s", result.Title)
	}
	if result.Content != "原内容" {
		t.Errorf("期望Content保留，实际=%s", result.Content)
	}
	if result.Deadline != "2026-09-15 23:59" {
		t.Errorf("期望Deadline保留，实际=%s", result.Deadline)
	}
}

func TestTaskService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestTaskService()

	_, err := svc.Update(context.Background(), "nonexistent", &dto.UpdateTaskRequest{
		Title: strPtr("新标题"),
	})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("期望 ErrTaskNotFound，实际: %v", err)
	}
}

func TestTaskService_Update_InvalidDeadline(t *testing.T) {
	svc, _ := setupTestTaskService()

	created, err := svc.Create(context.Background(), &dto.CreateTaskRequest{
		Title:   "作业",
		Content: "内容",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	_, err = svc.Update(context.Background(), created.TaskID, &dto.UpdateTaskRequest{
		Deadline: strPtr("明天"),
	})
	if !errors.Is(err, ErrInvalidDeadline) {
		t.Errorf("期望 ErrInvalidDeadline，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestTaskService_Delete_Success(t *testing.T) {
	svc, _ := setupTestTaskService()

	created, err := svc.Create(context.Background(), &dto.CreateTaskRequest{
		Title:   "作业",
		Content: "内容",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	if err := svc.Delete(context.Background(), created.TaskID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if err := svc.Delete(context.Background(), created.TaskID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("期望二次删除返回 ErrTaskNotFound，实际: %v", err)
	}
}

// ── List / GetLatest 测试 ──

func TestTaskService_List_NewestFirstWithProgress(t *testing.T) {
	svc, repos := setupTestTaskService()
	g := repos.addGroup("第1组", false)
	done := repos.addStudent("张三", g.GroupID)
	done.Status = true
	repos.addStudent("李四", g.GroupID)

	for _, title := range []string{"第一次作业", "第二次作业"} {
		if _, err := svc.Create(context.Background(), &dto.CreateTaskRequest{
			Title:   title,
			Content: "内容",
		}); err != nil {
			t.Fatalf("Create 应成功: %v", err)
		}
	}

	result, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("期望2个作业，实际=%d", len(result))
	}
	if result[0].Title != "第二次作业" {
		t.Errorf("期望最新作业在前，实际=%s", result[0].Title)
	}
	if result[0].TotalCount != 2 || result[0].CompletedCount != 1 {
		t.Errorf("期望完成度 1/2，实际 %d/%d", result[0].CompletedCount, result[0].TotalCount)
	}
}

func TestTaskService_GetLatest_Success(t *testing.T) {
	svc, _ := setupTestTaskService()

	for _, title := range []string{"旧作业", "最新作业"} {
		if _, err := svc.Create(context.Background(), &dto.CreateTaskRequest{
			Title:   title,
			Content: "内容",
		}); err != nil {
			t.Fatalf("Create 应成功: %v", err)
		}
	}

	result, err := svc.GetLatest(context.Background())
	if err != nil {
		t.Fatalf("GetLatest 应成功: %v", err)
	}
	if result.Title != "最新作业" {
		t.Errorf("期望Title=最新作业，实际=%s", result.Title)
	}
}

func TestTaskService_GetLatest_Empty(t *testing.T) {
	svc, _ := setupTestTaskService()

	_, err := svc.GetLatest(context.Background())
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("期望 ErrTaskNotFound，实际: %v", err)
	}
}
