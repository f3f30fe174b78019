// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package checkpoint

import "errors"

var (
	ErrNoStateDict         = errors.New("checkpoint has no state_dict")
	ErrMalformedCheckpoint = errors.New("malformed checkpoint")
	ErrUnknownCompression  = errors.New("unknown compression")
)
