package service

import "github.com/lib/pq"

func uniqueViolation(constraint string) error {
	return &pq.Error{Code: "23505", Constraint: constraint}
}

func foreignKeyViolation() error {
	return &pq.Error{Code: "23503"}
}
