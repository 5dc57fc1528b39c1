// Package lookup parses the :idOrCode path segment shared by the
// session and attendance routes. A token made of decimal digits is a
// numeric session id, anything else is a private access code.
package lookup

import "strconv"

type Lookup struct {
	ID   int64
	Code string
	byID bool
}

// ByID reports whether the lookup addresses a session by numeric id.
func (l Lookup) ByID() bool {
	return l.byID
}

func Parse(token string) Lookup {
	if !digitsOnly(token) {
		return Lookup{Code: token}
	}
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		// All digits but does not fit int64: no session can have this
		// id, treat it as a (necessarily unknown) code.
		return Lookup{Code: token}
	}
	return Lookup{ID: id, byID: true}
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
