package testutil

import "math/rand"

const lowercase = "abcdefghijklmnopqrstuvwxyz"

// RandomLowerString returns a random lowercase string of length n.
func RandomLowerString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = lowercase[rand.Intn(len(lowercase))]
	}
	return string(b)
}

// RandomEmail returns a random email address.
func RandomEmail() string {
	return RandomLowerString(16) + "@" + RandomLowerString(8) + ".com"
}

// Ptr returns a pointer to v, for filling option structs inline.
func Ptr[T any](v T) *T {
	return &v
}
