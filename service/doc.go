// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package service implements the poll operations: create, list, view,
results, update and delete polls, and submit, fetch and edit responses.

PollService validates requests with validator/v10, checks windows and
slots against the slot grid, and runs lifecycle rules inside store
transactions so checks and writes see the same locked poll row.

Errors are sentinels matched with errors.Is. Store failures are wrapped
as ErrUnavailable and logged; everything else is a caller error whose
message is safe to return.
*/
package service
