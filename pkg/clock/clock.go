/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package clock maps the simulator's logical tick onto wall-clock shaped
// timestamps. The host clock is never consulted, so two runs over the same
// scenario produce byte-identical timestamps.
package clock

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Clock converts ticks to timestamps from a fixed base, one second per tick.
type Clock struct {
	base time.Time
}

// New returns a clock anchored at the given base time.
func New(base time.Time) *Clock {
	return &Clock{base: base.UTC()}
}

// Default returns a clock anchored at a fixed, arbitrary epoch.
func Default() *Clock {
	return New(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
}

// At returns the timestamp for the given tick.
func (c *Clock) At(tick int64) metav1.Time {
	return metav1.NewTime(c.base.Add(time.Duration(tick) * time.Second))
}
