// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"strconv"

	"github.com/stakepact/pact/metrics"
)

var (
	metricInstructionCount    = metrics.LazyLoadCounterVec("instruction_count", []string{"kind", "outcome"})
	metricInstructionDuration = metrics.LazyLoadHistogramVec("instruction_duration_us", []string{"kind"}, metrics.BucketExecMicros)
	metricSlotAccess          = metrics.LazyLoadHistogramVec("instruction_slot_access", []string{"op"}, metrics.BucketSlots)
	metricVaultBalance        = metrics.LazyLoadGaugeVec("vault_balance", []string{"pool"})
)

func poolIDLabel(id uint64) string {
	return strconv.FormatUint(id, 10)
}
