// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation and validation.

Survey designers hold an HMAC-derived admin key (deterministic per survey ID
and server salt, so it never needs storing). Respondents hold a random
192-bit token issued when they claim a display name; the token scopes every
response write and the my-scores read.

Share slugs are short HMAC-derived base62 strings, safe to paste in chat.
HashIP produces salted one-way IP hashes kept only for abuse deduplication.
*/
package auth
