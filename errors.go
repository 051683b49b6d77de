package sched

import "errors"

const Namespace = "sched"

var (
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
)
