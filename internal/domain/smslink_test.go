package domain

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRelayNumber = "+15794010314"

func TestSMSComposeURI(t *testing.T) {
	uri := SMSComposeURI(testRelayNumber, "u & me 4 wx?")

	assert.Equal(t, "sms:+15794010314&body=u%20%26%20me%204%20wx%3F", uri)
}

func TestSMSComposeURI_BodyRoundTrips(t *testing.T) {
	text := Compress("Temperature: 20 degrees + wind and rain?", NoTruncation()).CompressedText
	uri := SMSComposeURI(testRelayNumber, text)

	_, body, found := strings.Cut(uri, "&body=")
	require.True(t, found)
	decoded, err := url.QueryUnescape(body)
	require.NoError(t, err)
	assert.Equal(t, text, decoded)
	assert.NotContains(t, body, " ")
	assert.NotContains(t, body, "&")
}

func TestSMSComposeURI_Empty(t *testing.T) {
	assert.Equal(t, "sms:"+testRelayNumber+"&body=", SMSComposeURI(testRelayNumber, ""))
}
