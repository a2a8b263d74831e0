package utils

import "golang.org/x/crypto/bcrypt"

// Passcode gates the admin dashboard behind an optional staff passcode.
// A zero Passcode accepts everything.
type Passcode struct {
	hash []byte
}

func NewPasscode(hash string) Passcode {
	if hash == "" {
		return Passcode{}
	}
	return Passcode{hash: []byte(hash)}
}

func (p Passcode) Enabled() bool { return len(p.hash) > 0 }

func (p Passcode) Check(passcode string) bool {
	if !p.Enabled() {
		return true
	}
	return bcrypt.CompareHashAndPassword(p.hash, []byte(passcode)) == nil
}

// HashPasscode is used by operators to produce ADMIN_PASSCODE_HASH.
func HashPasscode(passcode string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
