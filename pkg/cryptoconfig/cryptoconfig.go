/*
 * Iptv-Addon is a self-hosted Stremio addon that aggregates Xtream-Codes
 * and M3U IPTV catalogs.
 * Copyright (C) 2026  Stremify
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

// Package cryptoconfig encodes provider configurations into opaque tokens
// and back. With a server secret configured the token is authenticated
// ciphertext (PBKDF2-SHA512 key derivation, AES-256-GCM); without one it
// degrades to plain base64-encoded JSON. Decoding always resolves to a
// configuration or to absent, never to a panic.
package cryptoconfig

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/stremify/iptv-addon/pkg/config"
	"github.com/stremify/iptv-addon/pkg/utils"
)

// Token layout: salt ‖ iv ‖ authTag ‖ ciphertext, base64-encoded.
const (
	saltLength        = 64
	ivLength          = 16
	tagLength         = 16
	tagPosition       = saltLength + ivLength
	encryptedPosition = tagPosition + tagLength

	pbkdf2Iterations = 100000
	keyLength        = 32
)

// Encode turns cfg into an opaque token. With an empty secret the token is
// base64(JSON); with a secret it is an authenticated ciphertext with a
// fresh salt and iv per call, so repeated encodes of the same config yield
// distinct tokens.
func Encode(cfg *config.ProviderConfig, secret config.CredentialString) (string, error) {
	plain, err := json.Marshal(cfg)
	if err != nil {
		return "", utils.PrintErrorAndReturn(err)
	}

	if secret == "" {
		utils.DebugLog("No config secret set, returning plain-encoded token")
		return base64.URLEncoding.EncodeToString(plain), nil
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", utils.PrintErrorAndReturn(err)
	}
	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", utils.PrintErrorAndReturn(err)
	}

	aead, err := newAEAD(secret, salt)
	if err != nil {
		return "", utils.PrintErrorAndReturn(err)
	}

	// Seal appends the tag to the ciphertext; the token format carries the
	// tag before the ciphertext instead.
	sealed := aead.Seal(nil, iv, plain, nil)
	ciphertext := sealed[:len(sealed)-tagLength]
	tag := sealed[len(sealed)-tagLength:]

	buf := make([]byte, 0, encryptedPosition+len(ciphertext))
	buf = append(buf, salt...)
	buf = append(buf, iv...)
	buf = append(buf, tag...)
	buf = append(buf, ciphertext...)

	return base64.URLEncoding.EncodeToString(buf), nil
}

// Decode resolves token into a provider configuration. Every failure path
// falls through to the next decode strategy; only when all strategies fail
// does it report absent.
func Decode(token string, secret config.CredentialString) (*config.ProviderConfig, bool) {
	if token == "" {
		return nil, false
	}

	if secret != "" {
		if cfg, ok := decryptToken(token, secret); ok {
			return cfg, true
		}
		utils.DebugLog("Token decryption failed, trying plain decode paths")
	}

	// Plain path: base64-encoded JSON first, raw JSON for backward
	// compatibility second.
	if decoded, ok := decodeBase64(token); ok {
		if cfg, ok := parseJSONConfig(decoded); ok {
			return cfg, true
		}
	}
	if cfg, ok := parseJSONConfig([]byte(token)); ok {
		return cfg, true
	}

	return nil, false
}

// decodeBase64 accepts both alphabets. Tokens are minted with the
// URL-safe one so they survive a path segment unescaped; standard-alphabet
// tokens from older deployments still decode.
func decodeBase64(token string) ([]byte, bool) {
	if decoded, err := base64.URLEncoding.DecodeString(token); err == nil {
		return decoded, true
	}
	if decoded, err := base64.StdEncoding.DecodeString(token); err == nil {
		return decoded, true
	}
	return nil, false
}

// IsConfigToken reports whether a path segment is plausibly a
// configuration token. Anything shorter than 8 characters is rejected
// before any decode attempt, unless it carries the enc: prefix.
func IsConfigToken(token string) bool {
	if token == "" {
		return false
	}
	if strings.HasPrefix(token, "enc:") {
		return true
	}
	return len(token) >= 8
}

// Fingerprint derives the cache key for a token. The digest identifies a
// configuration without storing the token or its secrets.
func Fingerprint(token string) string {
	sum := md5.Sum([]byte(token))
	return hex.EncodeToString(sum[:])
}

func decryptToken(token string, secret config.CredentialString) (*config.ProviderConfig, bool) {
	data, ok := decodeBase64(strings.TrimPrefix(token, "enc:"))
	if !ok {
		return nil, false
	}
	if len(data) < encryptedPosition {
		utils.DebugLog("Encrypted token too short: %d bytes", len(data))
		return nil, false
	}

	salt := data[:saltLength]
	iv := data[saltLength:tagPosition]
	tag := data[tagPosition:encryptedPosition]
	ciphertext := data[encryptedPosition:]

	aead, err := newAEAD(secret, salt)
	if err != nil {
		return nil, false
	}

	sealed := make([]byte, 0, len(ciphertext)+tagLength)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plain, err := aead.Open(nil, iv, sealed, nil)
	if err != nil {
		// Tag mismatch or truncated buffer: fail closed.
		return nil, false
	}

	return parseJSONConfig(plain)
}

func parseJSONConfig(data []byte) (*config.ProviderConfig, bool) {
	var cfg config.ProviderConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, false
	}
	if err := cfg.Validate(); err != nil {
		return nil, false
	}
	return &cfg, true
}

func newAEAD(secret config.CredentialString, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(secret.Reveal()), salt, pbkdf2Iterations, keyLength, sha512.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}
	return cipher.NewGCMWithNonceSize(block, ivLength)
}
