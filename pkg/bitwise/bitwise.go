package bitwise

// Unsigned covers the integer widths used by wire masks.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

func Unset[T Unsigned](n T, k int) T {
	return (n & ^(T(1) << k)) // AND NOT
}

func Set[T Unsigned](n T, k int) T {
	return (n | (T(1) << k)) // OR
}

func Toggle[T Unsigned](n T, k int) T {
	return (n ^ (T(1) << k)) // XOR
}

func IsSet[T Unsigned](n T, k int) bool {
	return n&(T(1)<<k) > 0
}

// HasAll reports whether every bit of flags is set in n.
func HasAll[T Unsigned](n, flags T) bool {
	return n&flags == flags
}

// HasAny reports whether at least one bit of flags is set in n.
func HasAny[T Unsigned](n, flags T) bool {
	return n&flags != 0
}
