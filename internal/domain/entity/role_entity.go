package entity

import (
	"fmt"
	"strings"
)

// Role is the part a user plays on a load.
type Role string

const (
	RoleBroker   Role = "BROKER"
	RoleCustomer Role = "CUSTOMER"
	RoleCarrier  Role = "CARRIER"
)

// Roles lists every supported role
var Roles = []Role{RoleBroker, RoleCustomer, RoleCarrier}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// ParseRole accepts role names in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
