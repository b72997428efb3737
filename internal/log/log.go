// SPDX-License-Identifier: Apache-2.0

// Package log provides the engine's structured logger, a thin wrapper
// around zap so every component accepts a *zap.Logger and defaults to a
// no-op logger rather than nil, the same defaulting the flux query engine's
// executor applies to the logger it is constructed with.
package log

import "go.uber.org/zap"

// Default returns a no-op logger, used whenever a caller passes nil.
func Default() *zap.Logger {
	return zap.NewNop()
}

// OrDefault returns l if non-nil, else Default().
func OrDefault(l *zap.Logger) *zap.Logger {
	if l == nil {
		return Default()
	}
	return l
}
