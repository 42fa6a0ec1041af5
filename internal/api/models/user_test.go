package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RoleModerator))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
}

func TestUserCapabilities(t *testing.T) {
	tests := []struct {
		name        string
		user        User
		isModerator bool
		isAdmin     bool
	}{
		{"plain user", User{Role: RoleUser}, false, false},
		{"moderator", User{Role: RoleModerator}, true, false},
		{"admin", User{Role: RoleAdmin}, false, true},
		{"staff overrides role", User{Role: RoleUser, IsStaff: true}, true, true},
		{"staff admin", User{Role: RoleAdmin, IsStaff: true}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isModerator, tt.user.IsModerator())
			assert.Equal(t, tt.isAdmin, tt.user.IsAdmin())
		})
	}
}
