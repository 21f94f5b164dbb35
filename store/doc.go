// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package store persists polls, responses and availability slots with
// database/sql. Queries are written with ? placeholders and rebound for
// the active dialect.
package store
