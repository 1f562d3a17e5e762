package wise

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
)

// signChallenge signs a step-up challenge the way Wise expects it:
// RSA PKCS#1 v1.5 over the SHA-256 digest of the challenge bytes,
// encoded as standard base64.
func signChallenge(key *rsa.PrivateKey, challenge string) (string, error) {
	digest := sha256.Sum256([]byte(challenge))
	signature, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("could not sign challenge: %w", err)
	}

	return base64.StdEncoding.EncodeToString(signature), nil
}

// parsePrivateKey accepts an unencrypted PEM encoded RSA private key
// in either PKCS#1 or PKCS#8 form.
func parsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in private key data")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("could not parse private key: %w", err)
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not an RSA key")
	}

	return key, nil
}
