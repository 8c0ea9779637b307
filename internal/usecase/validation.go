package usecase

import "strings"

// ValidEmail performs a minimal structural check on a buyer email address.
// Full validation is the mail provider's problem; this only rejects input
// that cannot possibly be deliverable.
func ValidEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if strings.IndexByte(domain, '@') >= 0 {
		return false
	}
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
