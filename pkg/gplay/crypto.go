package gplay

import (
	"bufio"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"io"
	"math/big"
	"strings"
)

const GooglePubkey = "AAAAgMom/1a/v0lblO2Ubrt60J2gcuXSljGFQXgcyZWveWLEwo6prwgi3iJIZdodyhKZQrNWp5nKJ3srRXcUW+F1BD3baEVGcmEgqaLZUNBjm057pKRI16kB0YppeGx5qIQ5QjKzsR8ETQbKLNWgRY0QRNVz34kMJR3P/LgHax/6rmf5AAAAAwEAAQ=="

func parseKeyValues(r io.Reader) map[string]string {
	scanner := bufio.NewScanner(r)

	kvs := map[string]string{}

	for scanner.Scan() {
		row := scanner.Text()
		firstIdx := strings.Index(row, "=")
		if firstIdx < 1 {
			continue
		}
		key := row[:firstIdx]
		value := row[firstIdx+1:]
		kvs[strings.ToLower(key)] = value
	}
	return kvs
}

// Encrypt creds using RSA-OAEP and the google pub key
// If randSrc is nil, uses crypto/rand.Reader
func encryptCredentials(email string, password string, randSrc *io.Reader) (string, error) {

	if randSrc == nil {
		randSrc = &rand.Reader
	}

	pubKeyBin, err := base64.StdEncoding.DecodeString(GooglePubkey)
	if err != nil {
		return "", err
	}

	modulusLen := binary.BigEndian.Uint32(pubKeyBin)

	modulus := pubKeyBin[4 : modulusLen+4]

	offset := modulusLen + 4

	exponentLen := binary.BigEndian.Uint32(pubKeyBin[offset : offset+4])

	exponentBytes := make([]byte, 4)
	copy(exponentBytes[4-exponentLen:], pubKeyBin[offset+4:])

	exponent := int(binary.BigEndian.Uint32(exponentBytes)) // 65537

	hash := sha1.New()
	hash.Write(pubKeyBin)
	digest := hash.Sum(nil)

	h := append([]byte{}, 0x00)
	h = append(h, digest[:4]...)

	n := new(big.Int)
	n.SetBytes(modulus)

	pubKey := &rsa.PublicKey{
		N: n,
		E: exponent,
	}

	msg := append([]byte(email), 0x00)
	msg = append(msg, []byte(password)...)

	ciphertext, err := rsa.EncryptOAEP(sha1.New(), *randSrc, pubKey, msg, nil)
	if err != nil {
		return "", err
	}

	final := append(h, ciphertext...)

	return base64.URLEncoding.EncodeToString(final), nil
}
