package service

import "time"

func ptr[T any](v T) *T {
	return &v
}

func timeMinutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
