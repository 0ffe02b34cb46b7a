package enum

import (
	"fmt"
	"strings"
)

// CategoryGroup splits the menu into food and drinks
type CategoryGroup string

const (
	CategoryGroupFood      CategoryGroup = "FOOD"
	CategoryGroupBeverages CategoryGroup = "BEVERAGES"
)

func (g CategoryGroup) IsValid() bool {
	return g == CategoryGroupFood || g == CategoryGroupBeverages
}

func ParseCategoryGroup(s string) (CategoryGroup, error) {
	g := CategoryGroup(strings.ToUpper(strings.TrimSpace(s)))
	if !g.IsValid() {
		return "", fmt.Errorf("invalid category group %q", s)
	}
	return g, nil
}

// Role of a staff account
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCashier
}
