// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package checkpoint reads and writes model checkpoints and extracts the
// parameters of a sub-model from them.
//
// A checkpoint file is a CBOR map holding at least a "state_dict" entry: the
// flat mapping of parameter names to values. The file may be compressed with
// zstd or LZ4 (frame format); [Decode] detects the compression from the
// leading magic bytes.
package checkpoint
