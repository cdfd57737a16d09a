package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleSetAddIsIdempotent(t *testing.T) {
	s := NewRoleSet(RoleUser)
	s = s.Add(RoleAgent).Add(RoleAgent)

	assert.Equal(t, []Role{RoleUser, RoleAgent}, s.Roles())
	assert.Equal(t, s, s.Union(NewRoleSet(RoleAgent)))
}

func TestRoleSetRemoveAndHas(t *testing.T) {
	s := NewRoleSet(RoleAdmin, RoleSeller)

	assert.True(t, s.Has(RoleAdmin))
	assert.True(t, s.HasAny(RoleBuyer, RoleSeller))
	assert.False(t, s.HasAny(RoleBuyer, RoleInvestor))

	s = s.Remove(RoleAdmin)
	assert.False(t, s.Has(RoleAdmin))
	assert.Equal(t, []int{3}, s.Ints())

	// unknown roles are ignored
	assert.Equal(t, s, s.Add(Role(9)))
	assert.False(t, s.Has(Role(0)))
}

func TestRoleSetIntersects(t *testing.T) {
	audience := NewRoleSet(RoleAdmin, RoleSeller)

	assert.True(t, audience.Intersects(NewRoleSet(RoleSeller, RoleBuyer)))
	assert.False(t, audience.Intersects(NewRoleSet(RoleBuyer)))
	assert.False(t, audience.Intersects(0))
}

func TestRoleSetJSON(t *testing.T) {
	data, err := json.Marshal(NewRoleSet(RoleAgent, RoleUser))
	require.NoError(t, err)
	assert.JSONEq(t, `[2,5]`, string(data))

	var s RoleSet
	require.NoError(t, json.Unmarshal([]byte(`[5,2,5]`), &s))
	assert.Equal(t, NewRoleSet(RoleUser, RoleAgent), s)

	assert.Error(t, json.Unmarshal([]byte(`[7]`), &s))
	assert.Error(t, json.Unmarshal([]byte(`"admin"`), &s))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("Agent")
	require.NoError(t, err)
	assert.Equal(t, RoleAgent, r)

	r, err = ParseRole("6")
	require.NoError(t, err)
	assert.Equal(t, RoleInvestor, r)

	_, err = ParseRole("landlord")
	assert.Error(t, err)
	_, err = ParseRole("0")
	assert.Error(t, err)
}

func TestParseRoleList(t *testing.T) {
	s, err := ParseRoleList("1, agent,")
	require.NoError(t, err)
	assert.Equal(t, NewRoleSet(RoleAdmin, RoleAgent), s)

	s, err = ParseRoleList("")
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())

	_, err = ParseRoleList("1,x")
	assert.Error(t, err)
}
