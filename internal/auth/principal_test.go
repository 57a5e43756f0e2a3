package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleOrder(t *testing.T) {
	tests := []struct {
		role     Role
		employee bool
		lead     bool
		admin    bool
	}{
		{RoleAdmin, true, true, true},
		{RoleLead, true, true, false},
		{RoleEmployee, true, false, false},
		{Role("owner"), false, false, false},
		{Role(""), false, false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.employee, tt.role.AtLeast(RoleEmployee), "%q >= employee", tt.role)
		assert.Equal(t, tt.lead, tt.role.AtLeast(RoleLead), "%q >= lead", tt.role)
		assert.Equal(t, tt.admin, tt.role.AtLeast(RoleAdmin), "%q >= admin", tt.role)
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("lead")
	assert.NoError(t, err)
	assert.Equal(t, RoleLead, r)

	_, err = ParseRole("superuser")
	assert.Error(t, err)
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	assert.NoError(t, err)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("", "hunter22"))
}

func TestAPIKeyMatches(t *testing.T) {
	assert.True(t, APIKeyMatches("k-123", "k-123"))
	assert.False(t, APIKeyMatches("k-123", "k-124"))
	assert.False(t, APIKeyMatches("", ""))
}
