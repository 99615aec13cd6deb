// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

/*
Package credential implements registration, login, and session management.

It owns the reversible password cipher, the remember-token lifecycle, and the
email verification flow. Profile concerns live in the member package; this
package only ever touches the credential columns of a Person.

# Reversible encryption

Passwords are RSA-encrypted, not hashed. The platform inherited a support flow
that must decrypt the stored credential to compare it against a typed "current
password", so the ciphertext has to be reversible with the private key. The
keys live outside the database: leaking one without the other reveals nothing.
*/
package credential

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// # Cipher Contract

// Cipher encrypts and decrypts member passwords.
//
// Implementations must guarantee round-trip stability: Decrypt(Encrypt(p)) == p
// for every printable password p. The ciphertext bytes themselves may differ
// between calls (RSA padding is randomized); only the round trip is stable.
type Cipher interface {

	/*
		Encrypt produces the storable ciphertext for a plaintext password.

		Parameters:
		  - plaintext: string

		Returns:
		  - string: Base64-encoded ciphertext
		  - error: ErrKeyUnavailable on key faults
	*/
	Encrypt(plaintext string) (string, error)

	/*
		Decrypt recovers the plaintext password from a stored ciphertext.

		Parameters:
		  - ciphertext: string (Base64-encoded)

		Returns:
		  - string: The original plaintext
		  - error: ErrDecryptionFailure on malformed or foreign ciphertext
	*/
	Decrypt(ciphertext string) (string, error)
}

// # RSA Implementation

// RSACipher is the production [Cipher] backed by an RSA key pair on disk.
type RSACipher struct {
	publicKey  *rsa.PublicKey
	privateKey *rsa.PrivateKey
}

/*
NewRSACipher loads the key pair from PEM files and returns a ready Cipher.

Description: The public key encrypts at registration/password-change time; the
private key decrypts during authentication. Both must belong to the same pair
or every login will fail with ErrDecryptionFailure.

Parameters:
  - publicKeyPath: string (PEM, PKIX or PKCS#1)
  - privateKeyPath: string (PEM, PKCS#1 or PKCS#8)

Returns:
  - *RSACipher: Ready cipher
  - error: ErrKeyUnavailable wrapping the underlying read/parse fault
*/
func NewRSACipher(publicKeyPath, privateKeyPath string) (*RSACipher, error) {
	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("credential_cipher_read_public_key_failed: %w: %w", ErrKeyUnavailable, err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("credential_cipher_parse_public_key_failed: %w: %w", ErrKeyUnavailable, err)
	}

	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("credential_cipher_read_private_key_failed: %w: %w", ErrKeyUnavailable, err)
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("credential_cipher_parse_private_key_failed: %w: %w", ErrKeyUnavailable, err)
	}

	return &RSACipher{publicKey: publicKey, privateKey: privateKey}, nil
}

// Encrypt implements [Cipher] using RSA PKCS#1 v1.5 and base64 output.
func (cipher *RSACipher) Encrypt(plaintext string) (string, error) {
	encrypted, err := rsa.EncryptPKCS1v15(rand.Reader, cipher.publicKey, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("credential_cipher_encrypt_failed: %w: %w", ErrKeyUnavailable, err)
	}
	return base64.StdEncoding.EncodeToString(encrypted), nil
}

// Decrypt implements [Cipher]. Any failure — bad base64, wrong key, corrupt
// bytes — collapses into ErrDecryptionFailure; the caller cannot distinguish
// them and should not try.
func (cipher *RSACipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("credential_cipher_decode_failed: %w: %w", ErrDecryptionFailure, err)
	}

	decrypted, err := rsa.DecryptPKCS1v15(rand.Reader, cipher.privateKey, raw)
	if err != nil {
		return "", fmt.Errorf("credential_cipher_decrypt_failed: %w: %w", ErrDecryptionFailure, err)
	}
	return string(decrypted), nil
}
