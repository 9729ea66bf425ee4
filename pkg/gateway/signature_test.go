package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Fixture mirrors the request layout from Twilio's security documentation:
// a voice-style callback with query parameters on the URL and five form
// fields. The signature was computed independently with the documented
// algorithm.
var (
	signatureAuthToken = "12345"
	signatureURL       = "https://mycompany.com/myapp.php?foo=1&bar=2"
	signatureParams    = map[string]string{
		"CallSid": "CA1234567890ABCDE",
		"Caller":  "+14158675310",
		"Digits":  "1234",
		"From":    "+14158675310",
		"To":      "+18005551212",
	}
	signatureExpected = "GvWf1cFY/Q7PnoempGyD5oXAezc="
)

func TestValidateTwilioSignature(t *testing.T) {
	ok := ValidateTwilioSignature(signatureAuthToken, signatureURL, signatureParams, signatureExpected)
	assert.True(t, ok)
}

func TestValidateTwilioSignatureRejectsTamperedParam(t *testing.T) {
	params := map[string]string{}
	for k, v := range signatureParams {
		params[k] = v
	}
	params["Digits"] = "9999"

	ok := ValidateTwilioSignature(signatureAuthToken, signatureURL, params, signatureExpected)
	assert.False(t, ok)
}

func TestValidateTwilioSignatureRejectsWrongToken(t *testing.T) {
	ok := ValidateTwilioSignature("not-the-token", signatureURL, signatureParams, signatureExpected)
	assert.False(t, ok)
}

func TestValidateTwilioSignatureRejectsEmptySignature(t *testing.T) {
	ok := ValidateTwilioSignature(signatureAuthToken, signatureURL, signatureParams, "")
	assert.False(t, ok)
}

func TestValidateTwilioSignatureWithNoParams(t *testing.T) {
	// A GET-style callback signs only the URL.
	ok := ValidateTwilioSignature(signatureAuthToken, signatureURL, nil, "zYQTYrRWXE7LtzbG4PfP7/bkkGo=")
	assert.True(t, ok)
}
