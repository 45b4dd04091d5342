// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, access tokens, and invitation codes.

# Passwords

Passwords are hashed with bcrypt at the default cost:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, candidate)

# Access Tokens

Stateless HS256 JWTs carrying the user id and admin flag, valid for 24
hours. There is no refresh token; clients re-authenticate when the
access token expires.

	token, err := auth.GenerateToken(userID, isAdmin, secret)
	claims, err := auth.ParseToken(token, secret)

ParseToken rejects any token not signed with HMAC, so a token signed
with "none" or an asymmetric key never validates.

# Invitation Codes

Registration codes are 12 random characters from [A-Z0-9], generated
with crypto/rand. Uniqueness is enforced by the database, not here.
*/
package auth
