package model

import "fmt"

// Parent is the derived grouping category of a notice trial.
type Parent string

// Parent categories in sort order.
const (
	// ParentGrouped marks a target that moved as part of an ensemble.
	ParentGrouped Parent = "Grouped"
	// ParentAlone marks a target that moved on its own.
	ParentAlone Parent = "Alone"
)

// ParentLevels returns the categories in sort order.
func ParentLevels() []string {
	return []string{string(ParentGrouped), string(ParentAlone)}
}

// ParentOf maps the boolean grouped flag to its category.
func ParentOf(grouped bool) Parent {
	if grouped {
		return ParentGrouped
	}
	return ParentAlone
}

// String returns the string representation of the Parent.
func (p Parent) String() string {
	return string(p)
}

// IsValid returns true if this is a known category.
func (p Parent) IsValid() bool {
	switch p {
	case ParentGrouped, ParentAlone:
		return true
	default:
		return false
	}
}

// Rank returns the sort position of the category; unknown values sort last.
func (p Parent) Rank() int {
	switch p {
	case ParentGrouped:
		return 0
	case ParentAlone:
		return 1
	default:
		return 2
	}
}

// ParseParent converts a string to Parent.
func ParseParent(s string) (Parent, error) {
	p := Parent(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownParent, s)
	}
	return p, nil
}
