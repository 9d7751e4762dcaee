// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program/goal"
	"github.com/stakepact/pact/program/pool"
	"github.com/stakepact/pact/program/reverts"
)

// CreatePoolArgs is the immutable configuration of a new pool.
type CreatePoolArgs struct {
	PoolID             uint64       `json:"poolId"`
	StakeAmount        uint64       `json:"stakeAmount"`
	DurationDays       uint64       `json:"durationDays"`
	MinParticipants    uint64       `json:"minParticipants"`
	MaxParticipants    uint64       `json:"maxParticipants"`
	Mode               pool.Mode    `json:"mode"`
	WinnerSharePercent uint8        `json:"winnerSharePercent"`
	Charity            pact.Address `json:"charity"`
	Verifier           pact.Address `json:"verifier"`
	Goal               goal.Goal    `json:"goal"`
	// ScheduledStartTime defaults to the recruitment deadline when zero.
	ScheduledStartTime     uint64 `json:"scheduledStartTime"`
	RequireMinParticipants bool   `json:"requireMinParticipants"`
	AllowLateJoin          bool   `json:"allowLateJoin"`
}

func (p *Program) validateCreate(args *CreatePoolArgs, now uint64) error {
	invalid := func(format string, a ...any) error {
		return reverts.Newf(reverts.InvalidConfig, format, a...)
	}
	switch {
	case args.StakeAmount == 0:
		return invalid("stake amount must be positive")
	case args.DurationDays < p.cfg.MinDurationDays || args.DurationDays > p.cfg.MaxDurationDays:
		return invalid("duration %d outside [%d, %d]", args.DurationDays, p.cfg.MinDurationDays, p.cfg.MaxDurationDays)
	case args.MinParticipants < p.cfg.MinParticipantsFloor || args.MinParticipants > p.cfg.MinParticipantsCeil:
		return invalid("min participants %d outside [%d, %d]", args.MinParticipants, p.cfg.MinParticipantsFloor, p.cfg.MinParticipantsCeil)
	case args.MaxParticipants < args.MinParticipants || args.MaxParticipants > p.cfg.MaxParticipantsCap:
		return invalid("max participants %d outside [%d, %d]", args.MaxParticipants, args.MinParticipants, p.cfg.MaxParticipantsCap)
	case !args.Mode.IsValid():
		return invalid("unknown distribution mode %d", args.Mode)
	case args.WinnerSharePercent > pact.MaxPercent:
		return invalid("winner share %d above %d", args.WinnerSharePercent, pact.MaxPercent)
	case args.Charity.IsZero():
		return invalid("charity address required")
	case args.Verifier.IsZero():
		return invalid("verifier required")
	}
	if err := args.Goal.Validate(); err != nil {
		return invalid("%v", err)
	}
	deadline := now + pact.RecruitmentWindow
	if args.ScheduledStartTime != 0 && (args.ScheduledStartTime < now || args.ScheduledStartTime > deadline) {
		return invalid("scheduled start %d outside [%d, %d]", args.ScheduledStartTime, now, deadline)
	}
	return nil
}

// CreatePool initializes the pool and its vault.
func (p *Program) CreatePool(creator pact.Address, now uint64, args *CreatePoolArgs) error {
	if err := p.validateCreate(args, now); err != nil {
		return err
	}
	existing, err := p.poolService.Get(args.PoolID)
	if err != nil {
		return err
	}
	if !existing.IsEmpty() {
		return reverts.Newf(reverts.PoolAlreadyExists, "pool %d", args.PoolID)
	}

	ns := p.cfg.Namespace
	vault := ns.VaultAddress(args.PoolID)

	// a balance sent to the vault address before creation is kept as yield
	yield, err := p.state.GetBalance(vault)
	if err != nil {
		return err
	}

	deadline := now + pact.RecruitmentWindow
	scheduled := args.ScheduledStartTime
	if scheduled == 0 {
		scheduled = deadline
	}

	pl := &pool.Pool{
		ID:                     args.PoolID,
		Creator:                creator,
		Verifier:               args.Verifier,
		StakeAmount:            args.StakeAmount,
		DurationDays:           args.DurationDays,
		MinParticipants:        args.MinParticipants,
		MaxParticipants:        args.MaxParticipants,
		Mode:                   args.Mode,
		WinnerSharePercent:     args.WinnerSharePercent,
		Charity:                args.Charity,
		Goal:                   args.Goal,
		RequireMinParticipants: args.RequireMinParticipants,
		AllowLateJoin:          args.AllowLateJoin,
		Status:                 pool.StatusRecruiting,
		CreatedAt:              now,
		RecruitmentDeadline:    deadline,
		ScheduledStartTime:     scheduled,
		YieldEarned:            yield,
	}

	for _, addr := range []pact.Address{ns.PoolAddress(args.PoolID), vault, ns.RegistryAddress()} {
		if err := p.state.SetProgram(addr, true); err != nil {
			return err
		}
	}
	if err := p.poolService.Insert(pl); err != nil {
		return err
	}

	logger.Debug("pool created", "pool", pl.ID, "creator", creator, "stake", pl.StakeAmount, "mode", pl.Mode)
	p.emit(Event{Kind: EventPoolCreated, PoolID: pl.ID, Time: now, Wallet: addrPtr(creator), Amount: pl.StakeAmount})
	return nil
}
