package classify

import "github.com/mailsift/mailsift/internal/model"

// DefaultCCThreshold is the recipient count above which an email is treated
// as a CC/broadcast message.
const DefaultCCThreshold = 3

// CCDetector flags emails that look broadcast to many recipients. The flag
// is informational only: it never affects category scoring or spam status.
type CCDetector struct {
	Threshold int
}

// NewCCDetector returns a detector with the default threshold.
func NewCCDetector() *CCDetector {
	return &CCDetector{Threshold: DefaultCCThreshold}
}

// Check reports whether the email's total recipient count across to/cc/bcc
// strictly exceeds the threshold.
func (d *CCDetector) Check(email *model.Email) bool {
	return email.RecipientCount() > d.Threshold
}
