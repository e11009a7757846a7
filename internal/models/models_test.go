package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsAdmin(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	user := &User{Role: RoleUser}
	unknown := &User{Role: "superuser"}
	empty := &User{}

	assert.True(t, admin.IsAdmin())
	assert.False(t, user.IsAdmin())
	// An unrecognized role never grants elevated access
	assert.False(t, unknown.IsAdmin())
	assert.False(t, empty.IsAdmin())
}

func TestTask_IsOwnedBy(t *testing.T) {
	task := &Task{OwnerID: "user-1"}

	assert.True(t, task.IsOwnedBy("user-1"))
	assert.False(t, task.IsOwnedBy("user-2"))
	assert.False(t, task.IsOwnedBy(""))
}
