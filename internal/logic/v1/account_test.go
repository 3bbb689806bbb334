package v1

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/task-service/internal/core/domain"
)

func newAccountService(store domain.Store) *AccountService {
	return NewAccountService(store, NewCredentialService("test-secret", time.Hour))
}

func TestRegisterThenLogin(t *testing.T) {
	store := newFakeStore()
	s := newAccountService(store)
	ctx := context.Background()

	user, err := s.Register(ctx, "a@b.c", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@b.c", user.Email)

	resp, err := s.Login(ctx, "a@b.c", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, "a@b.c", resp.Email)
}

func TestLogin_FailuresCollapseToInvalidCredentials(t *testing.T) {
	store := newFakeStore()
	s := newAccountService(store)
	ctx := context.Background()

	_, err := s.Register(ctx, "a@b.c", "hunter22")
	require.NoError(t, err)

	cases := []struct {
		name     string
		email    string
		password string
		storeErr error
	}{
		{name: "missing email", email: "", password: "hunter22"},
		{name: "missing password", email: "a@b.c", password: ""},
		{name: "unknown email", email: "nobody@b.c", password: "hunter22"},
		{name: "wrong password", email: "a@b.c", password: "wrong"},
		{name: "store failure", email: "a@b.c", password: "hunter22", storeErr: errors.New("boom")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store.selectErr = tc.storeErr
			defer func() { store.selectErr = nil }()

			_, err := s.Login(ctx, tc.email, tc.password)
			require.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestRegister_Validation(t *testing.T) {
	s := newAccountService(newFakeStore())
	ctx := context.Background()

	_, err := s.Register(ctx, "", "pw")
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.Register(ctx, "a@b.c", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	s := newAccountService(newFakeStore())
	ctx := context.Background()

	_, err := s.Register(ctx, "a@b.c", "hunter22")
	require.NoError(t, err)

	_, err = s.Register(ctx, "a@b.c", "other-pass")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserResponsesNeverCarryPasswordMaterial(t *testing.T) {
	s := newAccountService(newFakeStore())
	ctx := context.Background()

	user, err := s.Register(ctx, "a@b.c", "hunter22")
	require.NoError(t, err)

	fetched, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)

	login, err := s.Login(ctx, "a@b.c", "hunter22")
	require.NoError(t, err)

	for _, v := range []any{user, fetched, login} {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "password")
		assert.NotContains(t, string(raw), "hunter22")
		assert.NotContains(t, string(raw), "$2")
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	s := newAccountService(newFakeStore())

	_, err := s.GetUserByID(context.Background(), "no-such-id")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_PasswordChangeRotatesLogin(t *testing.T) {
	s := newAccountService(newFakeStore())
	ctx := context.Background()

	user, err := s.Register(ctx, "a@b.c", "oldpass123")
	require.NoError(t, err)

	newPass := "newpass123"
	_, err = s.UpdateUser(ctx, user.ID, domain.UpdateUserRequest{Password: &newPass})
	require.NoError(t, err)

	_, err = s.Login(ctx, "a@b.c", "newpass123")
	require.NoError(t, err)

	_, err = s.Login(ctx, "a@b.c", "oldpass123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateUser_EmailChange(t *testing.T) {
	s := newAccountService(newFakeStore())
	ctx := context.Background()

	user, err := s.Register(ctx, "a@b.c", "hunter22")
	require.NoError(t, err)

	newEmail := "new@b.c"
	updated, err := s.UpdateUser(ctx, user.ID, domain.UpdateUserRequest{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, "new@b.c", updated.Email)

	_, err = s.Login(ctx, "new@b.c", "hunter22")
	require.NoError(t, err)
}

func TestUpdateUser_Errors(t *testing.T) {
	s := newAccountService(newFakeStore())
	ctx := context.Background()

	user, err := s.Register(ctx, "a@b.c", "hunter22")
	require.NoError(t, err)

	t.Run("empty patch fails validation", func(t *testing.T) {
		_, err := s.UpdateUser(ctx, user.ID, domain.UpdateUserRequest{})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("empty email value fails validation", func(t *testing.T) {
		empty := ""
		_, err := s.UpdateUser(ctx, user.ID, domain.UpdateUserRequest{Email: &empty})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown user", func(t *testing.T) {
		email := "x@y.z"
		_, err := s.UpdateUser(ctx, "no-such-id", domain.UpdateUserRequest{Email: &email})
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestDeleteUser_CascadesToTasks(t *testing.T) {
	store := newFakeStore()
	accounts := newAccountService(store)
	tasks := NewTaskService(store, true)
	ctx := context.Background()

	user, err := accounts.Register(ctx, "a@b.c", "hunter22")
	require.NoError(t, err)

	_, err = tasks.CreateTask(ctx, domain.CreateTaskRequest{OwnerID: user.ID, Title: "laundry", Priority: 1})
	require.NoError(t, err)
	_, err = tasks.CreateTask(ctx, domain.CreateTaskRequest{OwnerID: user.ID, Title: "dishes", Priority: 2})
	require.NoError(t, err)

	confirmation, err := accounts.DeleteUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, confirmation.Message)

	_, err = accounts.GetUserByID(ctx, user.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	remaining, err := tasks.GetTasksByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDeleteUser_NotFound(t *testing.T) {
	s := newAccountService(newFakeStore())

	_, err := s.DeleteUser(context.Background(), "no-such-id")
	require.ErrorIs(t, err, ErrUserNotFound)
}
