// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Code identifies a program rejection. Codes are stable and exposed to clients.
type Code string

const (
	InvalidConfig               Code = "InvalidConfig"
	PoolAlreadyExists           Code = "PoolAlreadyExists"
	PoolNotFound                Code = "PoolNotFound"
	PoolFull                    Code = "PoolFull"
	PoolNotJoinable             Code = "PoolNotJoinable"
	AlreadyJoined               Code = "AlreadyJoined"
	InsufficientFunds           Code = "InsufficientFunds"
	TransitionNotReady          Code = "TransitionNotReady"
	NotAuthorized               Code = "NotAuthorized"
	PoolNotActive               Code = "PoolNotActive"
	ParticipantNotFound         Code = "ParticipantNotFound"
	ParticipantNotActive        Code = "ParticipantNotActive"
	DayOutOfWindow              Code = "DayOutOfWindow"
	DuplicateVerificationForDay Code = "DuplicateVerificationForDay"
	PoolNotEnded                Code = "PoolNotEnded"
	AlreadySettled              Code = "AlreadySettled"
	NoParticipants              Code = "NoParticipants"
	ProgramAccount              Code = "ProgramAccount"
	Overflow                    Code = "Overflow"
)

// Category groups codes by how a caller should react.
type Category uint8

const (
	CategoryConfig Category = iota + 1
	CategoryAuthorization
	CategoryStateConflict
	CategoryResource
)

func (c Category) String() string {
	switch c {
	case CategoryConfig:
		return "config"
	case CategoryAuthorization:
		return "authorization"
	case CategoryStateConflict:
		return "state-conflict"
	case CategoryResource:
		return "resource"
	}
	return "unknown"
}

// Category returns the category of the code.
func (c Code) Category() Category {
	switch c {
	case InvalidConfig:
		return CategoryConfig
	case NotAuthorized, ProgramAccount:
		return CategoryAuthorization
	case InsufficientFunds, PoolFull, Overflow:
		return CategoryResource
	}
	return CategoryStateConflict
}

type ErrRevert struct {
	code    Code
	message string
}

func New(code Code, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		message: message,
	}
}

// Newf creates a revert with a formatted message.
func Newf(code Code, format string, args ...any) *ErrRevert {
	return New(code, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Code() Code {
	return e.code
}

func (e *ErrRevert) Error() string {
	if e.message == "" {
		return string(e.code)
	}
	return string(e.code) + ": " + e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// CodeOf extracts the revert code from err.
func CodeOf(err error) (Code, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.code, true
	}
	return "", false
}

// Is reports whether err is a revert carrying the given code.
func Is(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
