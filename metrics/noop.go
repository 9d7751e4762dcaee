// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

type noopProvider struct{}

func (noopProvider) CounterVec(string, []string) CounterVecMeter              { return noopMeter{} }
func (noopProvider) GaugeVec(string, []string) GaugeVecMeter                  { return noopMeter{} }
func (noopProvider) HistogramVec(string, []string, []int64) HistogramVecMeter { return noopMeter{} }
func (noopProvider) Handler() http.Handler                                    { return nil }

type noopMeter struct{}

func (noopMeter) AddWithLabel(int64, map[string]string)      {}
func (noopMeter) SetWithLabel(int64, map[string]string)      {}
func (noopMeter) ObserveWithLabels(int64, map[string]string) {}
