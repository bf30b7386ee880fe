// internal/ioc/normalize_test.go
package ioc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		value string
		typ   Type
		want  string
	}{
		{"ip leading zeros", "192.168.001.001", TypeIP, "192.168.1.1"},
		{"ip trimmed", "  8.8.8.8 ", TypeIP, "8.8.8.8"},
		{"domain lowercased", "Evil.COM", TypeDomain, "evil.com"},
		{"domain trailing dot", "evil.com.", TypeDomain, "evil.com"},
		{"url scheme and host lowered", "HTTP://EVIL.com/Path?Q=1", TypeURL, "http://evil.com/Path?Q=1"},
		{"url no path", "HTTPS://Evil.Com", TypeURL, "https://evil.com"},
		{"md5 lowered", "D41D8CD98F00B204E9800998ECF8427E", TypeMD5, "d41d8cd98f00b204e9800998ecf8427e"},
		{"email lowered", "Bad@Evil.COM", TypeEmail, "bad@evil.com"},
		{"cve uppercased", "cve-2024-12345", TypeCVE, "CVE-2024-12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.value, tc.typ))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	values := map[Type]string{
		TypeIP:     "010.001.001.001",
		TypeDomain: "EVIL.example.COM.",
		TypeURL:    "HTTPS://Evil.Com/A/B?x=Y",
		TypeSHA256: "AB03C34F1ECE08211FE2A8039FD6424199B3F5EC4C0BE20F0E52C0C4BABEA165",
		TypeCVE:    "cve-2021-44228",
	}
	for typ, v := range values {
		once := Normalize(v, typ)
		assert.Equal(t, once, Normalize(once, typ), "normalize must be idempotent for %s", typ)
	}
}

func TestDetectType(t *testing.T) {
	cases := []struct {
		value string
		want  Type
	}{
		{"8.8.8.8", TypeIP},
		{"192.168.001.001", TypeIP},
		{"CVE-2021-44228", TypeCVE},
		{"cve-2024-1234", TypeCVE},
		{"d41d8cd98f00b204e9800998ecf8427e", TypeMD5},
		{"da39a3ee5e6b4b0d3255bfef95601890afd80709", TypeSHA1},
		{"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", TypeSHA256},
		{"attacker@evil.com", TypeEmail},
		{"https://evil.com/payload", TypeURL},
		{"evil.com", TypeDomain},
		{"EVIL.com.", TypeDomain},
		{"sub.evil.co.uk", TypeDomain},
		{"not an indicator", TypeUnknown},
		{"", TypeUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectType(tc.value))
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid values pass", func(t *testing.T) {
		assert.NoError(t, Validate("10.0.0.1", TypeIP))
		assert.NoError(t, Validate("evil.com", TypeDomain))
		assert.NoError(t, Validate("CVE-2024-0001", TypeCVE))
		assert.NoError(t, Validate(`C:\Windows\evil.exe`, TypeFilePath))
	})

	t.Run("invalid values carry type and reason", func(t *testing.T) {
		err := Validate("999.1.2.3.4", TypeIP)
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, TypeIP, verr.Type)

		assert.Error(t, Validate("zzz", TypeMD5))
		assert.Error(t, Validate("no-at-sign", TypeEmail))
		assert.Error(t, Validate("", TypeDomain))
	})
}
