package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// GenerateSign signs params as a sorted key=value query string with HMAC-SHA256.
func GenerateSign(params map[string]string, secretKey string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == "sign" || strings.TrimSpace(v) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(params[k])
		if i < len(keys)-1 {
			sb.WriteString("&")
		}
	}

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(sb.String()))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// VerifySign checks the sign entry of params against the computed value.
func VerifySign(params map[string]string, secretKey string) bool {
	receivedSign := params["sign"]
	if receivedSign == "" {
		return false
	}
	return strings.EqualFold(receivedSign, GenerateSign(params, secretKey))
}
