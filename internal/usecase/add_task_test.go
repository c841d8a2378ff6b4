package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgate/taskgate/internal/domain"
)

func TestAddTask_Execute_Success(t *testing.T) {
	f := newFixture()
	uc := NewAddTask(f.repo, f.regen, f.clock, nil)

	out, err := uc.Execute(context.Background(), AddTaskInput{
		ID:      "auth",
		Title:   "Auth service",
		Content: "Build the login flow.",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, out.Task.Status)
	assert.Equal(t, f.clock.NowTime, out.Task.Created)
	assert.Equal(t, f.clock.NowTime, out.Task.Updated)

	saved := f.repo.Tasks["auth"]
	require.NotNil(t, saved)
	assert.Equal(t, "Auth service", saved.Title)
	assert.Equal(t, 1, f.reports.Regenerations)
}

func TestAddTask_Execute_WithDependencies(t *testing.T) {
	f := newFixture()
	f.addTask("auth", domain.StatusPending)
	uc := NewAddTask(f.repo, f.regen, f.clock, nil)

	out, err := uc.Execute(context.Background(), AddTaskInput{
		ID:               "api",
		Title:            "API layer",
		Dependencies:     []string{"auth"},
		DependencyReason: "API calls into auth",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"auth"}, out.Task.Dependencies)
}

func TestAddTask_Execute_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		input   AddTaskInput
		wantErr error
	}{
		{
			name:    "invalid id",
			input:   AddTaskInput{ID: "Bad ID", Title: "x"},
			wantErr: domain.ErrInvalidTaskID,
		},
		{
			name:    "empty title",
			input:   AddTaskInput{ID: "ok", Title: ""},
			wantErr: domain.ErrEmptyTitle,
		},
		{
			name:    "missing dependency",
			input:   AddTaskInput{ID: "ok", Title: "x", Dependencies: []string{"ghost"}, DependencyReason: "r"},
			wantErr: domain.ErrMissingDependencies,
		},
		{
			name:    "dependency without reason",
			input:   AddTaskInput{ID: "ok", Title: "x", Dependencies: []string{"auth"}},
			wantErr: domain.ErrDependencyReason,
		},
		{
			name:    "self dependency",
			input:   AddTaskInput{ID: "ok", Title: "x", Dependencies: []string{"ok"}, DependencyReason: "r"},
			wantErr: domain.ErrSelfDependency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.addTask("auth", domain.StatusPending)
			uc := NewAddTask(f.repo, f.regen, f.clock, nil)

			_, err := uc.Execute(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotContains(t, f.repo.Tasks, "ok", "store must stay unchanged")
			assert.Zero(t, f.reports.Regenerations)
		})
	}
}

func TestAddTask_Execute_DuplicateID(t *testing.T) {
	f := newFixture()
	f.addTask("auth", domain.StatusPending)
	uc := NewAddTask(f.repo, f.regen, f.clock, nil)

	_, err := uc.Execute(context.Background(), AddTaskInput{ID: "auth", Title: "again"})
	assert.ErrorIs(t, err, domain.ErrTaskExists)
}

func TestAddTask_Execute_ParentMustExist(t *testing.T) {
	f := newFixture()
	uc := NewAddTask(f.repo, f.regen, f.clock, nil)

	_, err := uc.Execute(context.Background(), AddTaskInput{ID: "auth__sub", Title: "x", Parent: "auth"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
