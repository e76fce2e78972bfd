package domain

import (
	"net/url"
	"strings"
)

// SMSComposeURI builds the deep link that opens an SMS compose sheet
// addressed to destination with text prefilled. The body is query-escaped
// (spaces as %20) so abbreviations like "&" survive.
func SMSComposeURI(destination, text string) string {
	body := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "sms:" + destination + "&body=" + body
}
