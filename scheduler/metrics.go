// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scheduler

import "github.com/stakepact/pact/metrics"

var metricTickCount = metrics.LazyLoadCounterVec("scheduler_tick_count", []string{"outcome"})
