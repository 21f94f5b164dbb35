// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the possession credentials used by the API.

There are no accounts. Holding a credential is the authorization.

# Admin Keys

Organizers get an admin key when they create a poll:

	adminKey := auth.GenerateAdminKey(pollID, salt)
	err := auth.ValidateAdminKey(pollID, adminKey, salt)

The key is an HMAC-SHA256 of the poll ID, URL-safe base64 without padding.
It is never stored.

# Edit Tokens

Respondents get a random 192-bit edit token when they submit:

	token, err := auth.GenerateEditToken()
	hash := auth.HashEditToken(token, salt)
	err = auth.VerifyEditToken(presented, hash, salt)

Only the hash is persisted.

# Share Slugs

	slug, err := auth.NewShareSlug(salt)

Slugs are base62 (alphanumeric only) and derived from a random nonce, so
they reveal nothing about poll IDs.
*/
package auth
