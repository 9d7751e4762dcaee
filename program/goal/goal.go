// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package goal models the challenge a pool commits its participants to.
// The program never interprets a goal; it is stored for the verifying authority.
package goal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Kind is the wire discriminator of a goal.
type Kind uint8

const (
	KindDailyDCA Kind = iota + 1
	KindHodl
	KindGithubCommits
	KindScreenTime
	KindCustomCheckin
)

var kindNames = map[Kind]string{
	KindDailyDCA:      "daily_dca",
	KindHodl:          "hodl",
	KindGithubCommits: "github_commits",
	KindScreenTime:    "screen_time",
	KindCustomCheckin: "custom_checkin",
}

const unknownName = "unknown"

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("%s(%d)", unknownName, uint8(k))
}

// Payload is the typed metadata of one goal variant.
type Payload interface {
	Kind() Kind
	Validate() error
}

// DailyDCA requires buying a token every day.
type DailyDCA struct {
	TokenMint       string `json:"tokenMint"`
	Amount          uint64 `json:"amount"`
	MinTradesPerDay uint64 `json:"minTradesPerDay"`
}

// Hodl requires holding a minimum token balance.
type Hodl struct {
	TokenMint      string `json:"tokenMint"`
	MinBalance     uint64 `json:"minBalance"`
	CheckFrequency string `json:"checkFrequency"`
}

// GithubCommits requires daily commits by a github user.
type GithubCommits struct {
	Username         string `json:"username"`
	Repo             string `json:"repo"` // optional, any repo counts when empty
	MinCommitsPerDay uint64 `json:"minCommitsPerDay"`
}

// ScreenTime caps the daily screen time.
type ScreenTime struct {
	MaxHours           uint64 `json:"maxHours"`
	VerificationMethod string `json:"verificationMethod"`
}

// CustomCheckin is a free-form daily habit.
type CustomCheckin struct {
	HabitName   string `json:"habitName"`
	Description string `json:"description"`
}

// Unknown keeps a goal of a kind this build does not know, byte for byte.
type Unknown struct {
	Type Kind
	Raw  []byte
}

func (DailyDCA) Kind() Kind      { return KindDailyDCA }
func (Hodl) Kind() Kind          { return KindHodl }
func (GithubCommits) Kind() Kind { return KindGithubCommits }
func (ScreenTime) Kind() Kind    { return KindScreenTime }
func (CustomCheckin) Kind() Kind { return KindCustomCheckin }
func (u Unknown) Kind() Kind     { return u.Type }

func (g DailyDCA) Validate() error {
	if g.TokenMint == "" {
		return errors.New("daily_dca: token mint required")
	}
	return nil
}

func (g Hodl) Validate() error {
	if g.TokenMint == "" {
		return errors.New("hodl: token mint required")
	}
	if g.MinBalance == 0 {
		return errors.New("hodl: min balance must be positive")
	}
	return nil
}

func (g GithubCommits) Validate() error {
	if g.Username == "" {
		return errors.New("github_commits: username required")
	}
	return nil
}

func (g ScreenTime) Validate() error {
	if g.MaxHours == 0 || g.MaxHours > 24 {
		return errors.Errorf("screen_time: max hours %d out of range", g.MaxHours)
	}
	return nil
}

func (g CustomCheckin) Validate() error {
	if g.HabitName == "" {
		return errors.New("custom_checkin: habit name required")
	}
	return nil
}

func (u Unknown) Validate() error {
	if u.Type == 0 {
		return errors.New("unknown goal: kind required")
	}
	if _, ok := kindNames[u.Type]; ok {
		return errors.Errorf("unknown goal shadows known kind %v", u.Type)
	}
	return nil
}

// Goal is the tagged union over all goal variants.
type Goal struct {
	payload Payload
}

// New wraps the payload.
func New(p Payload) Goal {
	return Goal{payload: p}
}

// Payload returns the typed payload, nil for the zero goal.
func (g Goal) Payload() Payload {
	return g.payload
}

// Kind returns the discriminator, zero for the zero goal.
func (g Goal) Kind() Kind {
	if g.payload == nil {
		return 0
	}
	return g.payload.Kind()
}

// Validate checks the payload.
func (g Goal) Validate() error {
	if g.payload == nil {
		return errors.New("goal required")
	}
	return g.payload.Validate()
}

func newPayload(k Kind) Payload {
	switch k {
	case KindDailyDCA:
		return &DailyDCA{}
	case KindHodl:
		return &Hodl{}
	case KindGithubCommits:
		return &GithubCommits{}
	case KindScreenTime:
		return &ScreenTime{}
	case KindCustomCheckin:
		return &CustomCheckin{}
	}
	return nil
}

func deref(p Payload) Payload {
	switch v := p.(type) {
	case *DailyDCA:
		return *v
	case *Hodl:
		return *v
	case *GithubCommits:
		return *v
	case *ScreenTime:
		return *v
	case *CustomCheckin:
		return *v
	}
	return p
}

// EncodeRLP implements rlp.Encoder as [kind, payload].
func (g Goal) EncodeRLP(w io.Writer) error {
	if g.payload == nil {
		return rlp.Encode(w, []any{uint8(0), []byte{}})
	}
	var raw []byte
	if u, ok := g.payload.(Unknown); ok {
		raw = u.Raw
	} else {
		var err error
		if raw, err = rlp.EncodeToBytes(g.payload); err != nil {
			return err
		}
	}
	return rlp.Encode(w, []any{uint8(g.payload.Kind()), raw})
}

// DecodeRLP implements rlp.Decoder.
func (g *Goal) DecodeRLP(s *rlp.Stream) error {
	var obj struct {
		Kind uint8
		Raw  []byte
	}
	if err := s.Decode(&obj); err != nil {
		return err
	}
	if obj.Kind == 0 {
		*g = Goal{}
		return nil
	}
	kind := Kind(obj.Kind)
	p := newPayload(kind)
	if p == nil {
		*g = Goal{payload: Unknown{Type: kind, Raw: obj.Raw}}
		return nil
	}
	if err := rlp.DecodeBytes(obj.Raw, p); err != nil {
		return errors.Wrapf(err, "decode %v goal", kind)
	}
	*g = Goal{payload: deref(p)}
	return nil
}

type jsonGoal struct {
	Type     string          `json:"type"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
	Kind     *uint8          `json:"kind,omitempty"`
	Raw      *hexutil.Bytes  `json:"raw,omitempty"`
}

// MarshalJSON encodes {"type": name, "metadata": {...}}.
// Unknown goals encode their kind and raw payload instead of metadata.
func (g Goal) MarshalJSON() ([]byte, error) {
	if g.payload == nil {
		return []byte("null"), nil
	}
	if u, ok := g.payload.(Unknown); ok {
		kind := uint8(u.Type)
		raw := hexutil.Bytes(u.Raw)
		return json.Marshal(&jsonGoal{Type: unknownName, Kind: &kind, Raw: &raw})
	}
	meta, err := json.Marshal(g.payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&jsonGoal{Type: g.payload.Kind().String(), Metadata: meta})
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *Goal) UnmarshalJSON(data []byte) error {
	var obj *jsonGoal
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj == nil {
		*g = Goal{}
		return nil
	}
	if obj.Type == unknownName {
		if obj.Kind == nil {
			return errors.New("unknown goal: kind required")
		}
		var raw []byte
		if obj.Raw != nil {
			raw = *obj.Raw
		}
		*g = Goal{payload: Unknown{Type: Kind(*obj.Kind), Raw: raw}}
		return nil
	}
	for kind, name := range kindNames {
		if name != obj.Type {
			continue
		}
		p := newPayload(kind)
		if len(obj.Metadata) > 0 {
			if err := json.Unmarshal(obj.Metadata, p); err != nil {
				return errors.Wrapf(err, "decode %v metadata", kind)
			}
		}
		*g = Goal{payload: deref(p)}
		return nil
	}
	return errors.Errorf("unsupported goal type %q", obj.Type)
}
