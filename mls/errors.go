// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mls

import "github.com/pkg/errors"

// Status is the shared return-code enum (§6 "Return codes").
type Status int

const (
	Success      Status = 0
	TstopReturn  Status = 1
	NoMem        Status = -1
	IllInput     Status = -2
	TooMuchWork  Status = -3
	TooMuchAcc   Status = -4
	ErrFailure   Status = -5
	ConvFailure  Status = -6
	SetupFailure Status = -7
	SolveFailure Status = -8
)

func (s Status) String() string {
	switch s {
	case Success:
		return "SUCCESS"
	case TstopReturn:
		return "TSTOP_RETURN"
	case NoMem:
		return "NO_MEM"
	case IllInput:
		return "ILL_INPUT"
	case TooMuchWork:
		return "TOO_MUCH_WORK"
	case TooMuchAcc:
		return "TOO_MUCH_ACC"
	case ErrFailure:
		return "ERR_FAILURE"
	case ConvFailure:
		return "CONV_FAILURE"
	case SetupFailure:
		return "SETUP_FAILURE"
	case SolveFailure:
		return "SOLVE_FAILURE"
	}
	return "UNKNOWN"
}

// DkyStatus is the getter-specific return enum (§6 "Getter codes").
type DkyStatus int

const (
	DkyOK    DkyStatus = 0
	DkyBadK  DkyStatus = -1
	DkyBadT  DkyStatus = -2
	DkyBadDky DkyStatus = -3
)

// StatusError wraps a fatal Status with a stack trace captured at the point
// of failure, using github.com/pkg/errors the way soypat-godesim wraps
// integration failures — this module's only panic-free error channel for
// runtime (as opposed to programmer-misuse) faults.
type StatusError struct {
	Status Status
	Op     string
	cause  error
}

func (e *StatusError) Error() string {
	if e.cause != nil {
		return e.Op + ": " + e.Status.String() + ": " + e.cause.Error()
	}
	return e.Op + ": " + e.Status.String()
}

func (e *StatusError) Unwrap() error { return e.cause }

// newStatusError builds a StatusError with a captured stack trace.
func newStatusError(op string, status Status, cause error) *StatusError {
	if cause == nil {
		cause = errors.New(status.String())
	} else {
		cause = errors.WithStack(cause)
	}
	return &StatusError{Status: status, Op: op, cause: cause}
}
