package auth

import (
	"fmt"
	"strconv"
)

type UserType string

const (
	UserTypeEmployee UserType = "employee"
	UserTypeCustomer UserType = "customer"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleLead     Role = "lead"
	RoleEmployee Role = "employee"
)

// rank orders employee roles; unknown roles rank 0 and satisfy nothing.
func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleLead:
		return 2
	case RoleEmployee:
		return 1
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r.rank() > 0
}

// AtLeast reports whether r is min or above in admin > lead > employee.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.rank() >= min.rank()
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Principal is either Employee or Customer. Ids live in separate spaces.
type Principal interface {
	UserType() UserType
	Subject() string
	// Key identifies the principal across both id spaces, e.g. "employee:5".
	Key() string
	isPrincipal()
}

type Employee struct {
	ID   uint
	Role Role
}

func (Employee) UserType() UserType { return UserTypeEmployee }
func (e Employee) Subject() string  { return strconv.FormatUint(uint64(e.ID), 10) }
func (e Employee) Key() string      { return EmployeeKey(e.ID) }
func (Employee) isPrincipal()       {}

type Customer struct {
	ID uint
}

func (Customer) UserType() UserType { return UserTypeCustomer }
func (c Customer) Subject() string  { return strconv.FormatUint(uint64(c.ID), 10) }
func (c Customer) Key() string      { return CustomerKey(c.ID) }
func (Customer) isPrincipal()       {}

func EmployeeKey(id uint) string {
	return fmt.Sprintf("%s:%d", UserTypeEmployee, id)
}

func CustomerKey(id uint) string {
	return fmt.Sprintf("%s:%d", UserTypeCustomer, id)
}
