package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type Role int

const (
	RoleAdmin    Role = 1
	RoleUser     Role = 2
	RoleSeller   Role = 3
	RoleBuyer    Role = 4
	RoleAgent    Role = 5
	RoleInvestor Role = 6
)

var roleNames = map[Role]string{
	RoleAdmin:    "admin",
	RoleUser:     "user",
	RoleSeller:   "seller",
	RoleBuyer:    "buyer",
	RoleAgent:    "agent",
	RoleInvestor: "investor",
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "role(" + strconv.Itoa(int(r)) + ")"
}

// ParseRole accepts a role name ("agent") or its numeric tag ("5").
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if r := Role(n); r.Valid() {
			return r, nil
		}
		return 0, fmt.Errorf("invalid role %q", s)
	}
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("invalid role %q", s)
}

// RoleSet is a set of roles stored as a bitmask, bit (1 << role) per member.
// It is persisted as an integer column and serialised as a sorted JSON array.
type RoleSet uint8

func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s = s.Add(r)
	}
	return s
}

func (s RoleSet) Add(r Role) RoleSet {
	if !r.Valid() {
		return s
	}
	return s | RoleSet(1)<<uint(r)
}

func (s RoleSet) Remove(r Role) RoleSet {
	if !r.Valid() {
		return s
	}
	return s &^ (RoleSet(1) << uint(r))
}

func (s RoleSet) Has(r Role) bool {
	return r.Valid() && s&(RoleSet(1)<<uint(r)) != 0
}

func (s RoleSet) HasAny(roles ...Role) bool {
	return s.Intersects(NewRoleSet(roles...))
}

func (s RoleSet) Intersects(other RoleSet) bool {
	return s&other != 0
}

func (s RoleSet) Union(other RoleSet) RoleSet {
	return s | other
}

func (s RoleSet) IsEmpty() bool {
	return s == 0
}

// Roles returns the members in ascending order.
func (s RoleSet) Roles() []Role {
	roles := make([]Role, 0, len(roleNames))
	for r := range roleNames {
		if s.Has(r) {
			roles = append(roles, r)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

func (s RoleSet) Ints() []int {
	roles := s.Roles()
	out := make([]int, len(roles))
	for i, r := range roles {
		out[i] = int(r)
	}
	return out
}

func RoleSetFromInts(values []int) RoleSet {
	var s RoleSet
	for _, v := range values {
		s = s.Add(Role(v))
	}
	return s
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Ints())
}

// UnmarshalJSON rejects unknown role tags instead of silently dropping them.
func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("roles must be an array of integers: %w", err)
	}
	var set RoleSet
	for _, v := range values {
		if !Role(v).Valid() {
			return fmt.Errorf("invalid role %d", v)
		}
		set = set.Add(Role(v))
	}
	*s = set
	return nil
}

// ParseRoleList parses "1,5" or "admin,agent".
func ParseRoleList(s string) (RoleSet, error) {
	var set RoleSet
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		r, err := ParseRole(part)
		if err != nil {
			return 0, err
		}
		set = set.Add(r)
	}
	return set, nil
}
