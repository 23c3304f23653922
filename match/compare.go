package match

import (
	"cmp"
	"fmt"
)

// GreaterThan matches values strictly greater than bound.
func GreaterThan[T cmp.Ordered](bound T) Predicate[T] {
	return ordered("greater than", bound, func(c int) bool { return c > 0 })
}

// GreaterThanOrEqual matches values greater than or equal to bound.
func GreaterThanOrEqual[T cmp.Ordered](bound T) Predicate[T] {
	return ordered("greater than or equal to", bound, func(c int) bool { return c >= 0 })
}

// LessThan matches values strictly less than bound.
func LessThan[T cmp.Ordered](bound T) Predicate[T] {
	return ordered("less than", bound, func(c int) bool { return c < 0 })
}

// LessThanOrEqual matches values less than or equal to bound.
func LessThanOrEqual[T cmp.Ordered](bound T) Predicate[T] {
	return ordered("less than or equal to", bound, func(c int) bool { return c <= 0 })
}

// Times predicates constrain how many calls a verification saw. They are ordinary
// Predicate[int] values with call-count wording.

// AtLeast matches counts of n or more.
func AtLeast(n int) Predicate[int] {
	return Match(fmt.Sprintf("at least %d times", n), func(count int) bool { return count >= n })
}

// AtMost matches counts of n or fewer.
func AtMost(n int) Predicate[int] {
	return Match(fmt.Sprintf("at most %d times", n), func(count int) bool { return count <= n })
}

// MoreThan matches counts strictly greater than n.
func MoreThan(n int) Predicate[int] {
	return Match(fmt.Sprintf("more than %d times", n), func(count int) bool { return count > n })
}

// FewerThan matches counts strictly less than n.
func FewerThan(n int) Predicate[int] {
	return Match(fmt.Sprintf("fewer than %d times", n), func(count int) bool { return count < n })
}

// Never matches a count of zero.
func Never() Predicate[int] {
	return Match("never", func(count int) bool { return count == 0 })
}

// Once matches a count of exactly one.
func Once() Predicate[int] {
	return Times(1)
}

// Times matches a count of exactly n.
func Times(n int) Predicate[int] {
	return Match(fmt.Sprintf("exactly %d times", n), func(count int) bool { return count == n })
}

func ordered[T cmp.Ordered](wording string, bound T, accept func(int) bool) Predicate[T] {
	return Predicate[T]{
		description: wording + " " + Render(bound),
		test: func(actual T) bool {
			return accept(cmp.Compare(actual, bound))
		},
	}
}
