// Package ai is the mock assistant. Responses are canned keyword matches;
// a real deployment would put an LLM client behind the same function.
package ai

import "strings"

const preamble = "I'm here to help with your email delivery questions. "

// Respond returns a canned answer for the query.
func Respond(query string) string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "api"):
		return preamble + "You can use our REST API or SMTP to send emails. Check our documentation for integration guides."
	case strings.Contains(q, "template"):
		return preamble + "You can create email templates in the Templates section. Templates help you reuse common email formats."
	case strings.Contains(q, "bounce"):
		return preamble + "Bounced emails occur when the recipient's server rejects the message. Check the Email Logs for detailed bounce reasons."
	default:
		return preamble + "Could you please provide more details about what you'd like to know?"
	}
}
