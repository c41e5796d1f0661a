package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/dmitrijs2005/coinvue/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdmin struct {
	created  []string
	password string
	promoted []string
	deleted  []string
	err      error
}

func (f *fakeAdmin) CreateAdmin(_ context.Context, username, email, password string) (*models.SafeUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, username+"/"+email)
	f.password = password
	return &models.SafeUser{ID: 42, Username: username, Email: email, Role: models.RoleAdmin}, nil
}

func (f *fakeAdmin) Promote(_ context.Context, username string) error {
	f.promoted = append(f.promoted, username)
	return f.err
}

func (f *fakeAdmin) DeleteUser(_ context.Context, username string) error {
	f.deleted = append(f.deleted, username)
	return f.err
}

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(string, io.Writer) ([]byte, error) {
		if i >= len(answers) {
			return nil, errors.New("no more input")
		}
		pw := []byte(answers[i])
		i++
		return pw, nil
	}
	t.Cleanup(func() { getPassword = orig })
}

func run(t *testing.T, admin *fakeAdmin, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := NewApp(admin, strings.NewReader(stdin), &out).Run(context.Background(), args)
	return out.String(), err
}

func TestRun_Usage(t *testing.T) {
	out, err := run(t, &fakeAdmin{}, "")
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, out, "Usage: coinvuectl")

	out, err = run(t, &fakeAdmin{}, "", "frobnicate")
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, out, "Unknown command: frobnicate")

	_, err = run(t, &fakeAdmin{}, "", "help")
	assert.NoError(t, err)
}

func TestCreateAdmin_FromArgs(t *testing.T) {
	stubPasswords(t, "s3cret!", "s3cret!")
	admin := &fakeAdmin{}

	out, err := run(t, admin, "", "create-admin", "root", "root@x.com")

	require.NoError(t, err)
	assert.Equal(t, []string{"root/root@x.com"}, admin.created)
	assert.Equal(t, "s3cret!", admin.password)
	assert.Contains(t, out, `Admin "root" created (id=42)`)
}

func TestCreateAdmin_Prompts(t *testing.T) {
	stubPasswords(t, "pw1234", "pw1234")
	admin := &fakeAdmin{}

	_, err := run(t, admin, "root\nroot@x.com\n", "create-admin")

	require.NoError(t, err)
	assert.Equal(t, []string{"root/root@x.com"}, admin.created)
}

func TestCreateAdmin_PasswordMismatch(t *testing.T) {
	stubPasswords(t, "pw1234", "pw9999")
	admin := &fakeAdmin{}

	_, err := run(t, admin, "", "create-admin", "root", "root@x.com")

	assert.EqualError(t, err, "passwords do not match")
	assert.Empty(t, admin.created)
}

func TestCreateAdmin_ServiceError(t *testing.T) {
	stubPasswords(t, "pw1234", "pw1234")
	admin := &fakeAdmin{err: common.ErrDuplicateEmail}

	_, err := run(t, admin, "", "create-admin", "root", "root@x.com")

	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestPromote(t *testing.T) {
	admin := &fakeAdmin{}

	out, err := run(t, admin, "", "promote", "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, admin.promoted)
	assert.Contains(t, out, `User "alice" is now an admin`)

	_, err = run(t, admin, "", "promote")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestDeleteUser(t *testing.T) {
	admin := &fakeAdmin{}

	out, err := run(t, admin, "bob\n", "delete-user", "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, admin.deleted)
	assert.Contains(t, out, `User "bob" deleted`)
}

func TestDeleteUser_NotConfirmed(t *testing.T) {
	admin := &fakeAdmin{}

	_, err := run(t, admin, "nope\n", "delete-user", "bob")

	assert.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, admin.deleted)
}

func TestDeleteUser_Unknown(t *testing.T) {
	admin := &fakeAdmin{err: common.NewNotFoundError("User not found: %s", "ghost")}

	_, err := run(t, admin, "ghost\n", "delete-user", "ghost")

	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, "User not found: ghost", err.Error())
}
