// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import "time"

// Timeout constants define minimum and default values for tool runs.
const (
	// MinCheckTimeout is the floor for --timeout.
	MinCheckTimeout = 100 * time.Millisecond

	// DefaultProbeTimeout bounds the availability probe behind help
	// and status.
	DefaultProbeTimeout = 10 * time.Second
)

// EnforceMinTimeout returns at least the minimum timeout.
//
// # Inputs
//
//   - requested: The timeout value requested by the caller
//   - minimum: The absolute minimum acceptable timeout
//
// # Outputs
//
//   - time.Duration: The requested timeout if valid, otherwise the minimum
func EnforceMinTimeout(requested, minimum time.Duration) time.Duration {
	if requested <= 0 || requested < minimum {
		return minimum
	}
	return requested
}

// checkTimeoutFor resolves the --timeout flag to the engine cap. Zero
// means no cap: each backend keeps its own timeout, and backends without
// one get the runner default.
func checkTimeoutFor(flag time.Duration) time.Duration {
	if flag <= 0 {
		return 0
	}
	return EnforceMinTimeout(flag, MinCheckTimeout)
}
