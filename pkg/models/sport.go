package models

// Sport identifies one of the leagues the prediction backend covers.
type Sport string

const (
	SportNBA   Sport = "NBA"
	SportNFL   Sport = "NFL"
	SportNHL   Sport = "NHL"
	SportMLB   Sport = "MLB"
	SportNCAAB Sport = "NCAAB"
	SportNCAAF Sport = "NCAAF"
)

// AllSports lists every supported sport in display order.
var AllSports = []Sport{SportNBA, SportNFL, SportNHL, SportMLB, SportNCAAB, SportNCAAF}

// IsValid reports whether s is one of the supported sport codes.
func (s Sport) IsValid() bool {
	switch s {
	case SportNBA, SportNFL, SportNHL, SportMLB, SportNCAAB, SportNCAAF:
		return true
	}
	return false
}

func (s Sport) String() string {
	return string(s)
}
