package mail

import "context"

// Sender delivers one-time-passcode emails. Kept behind an interface so the
// auth service can be tested without an SMTP server.
type Sender interface {
	// SendOTP emails the verification code to the given address.
	SendOTP(ctx context.Context, to, code string) error
}
