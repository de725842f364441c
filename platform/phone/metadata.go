package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Number is a parsed international phone number.
type Number interface {
	// E164 returns the number as "+" followed by digits.
	E164() string
}

// Metadata is the numbering-plan capability the normalizer relies on for
// international numbers.
type Metadata interface {
	Parse(number string) (Number, error)
	IsValid(n Number) bool
	CountryName(n Number) string
}

// LibMetadata implements Metadata with libphonenumber metadata.
type LibMetadata struct{}

// NewLibMetadata returns the libphonenumber backed Metadata.
func NewLibMetadata() LibMetadata {
	return LibMetadata{}
}

type libNumber struct {
	num *phonenumbers.PhoneNumber
}

func (n libNumber) E164() string {
	return phonenumbers.Format(n.num, phonenumbers.E164)
}

// Parse parses a number in international form. Without a leading "+" the
// library has no region to fall back on and fails.
func (LibMetadata) Parse(number string) (n Number, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = nil, fmt.Errorf("parse %q: %v", number, r)
		}
	}()

	num, err := phonenumbers.Parse(number, "")
	if err != nil {
		return nil, err
	}
	return libNumber{num: num}, nil
}

// IsValid reports whether the number is valid, not merely possible.
func (LibMetadata) IsValid(n Number) bool {
	ln, ok := n.(libNumber)
	if !ok || ln.num == nil {
		return false
	}
	return phonenumbers.IsValidNumber(ln.num)
}

// CountryName returns the English name of the region the number belongs
// to, or the region code when no display name is known.
func (LibMetadata) CountryName(n Number) string {
	ln, ok := n.(libNumber)
	if !ok || ln.num == nil {
		return ""
	}
	return regionName(phonenumbers.GetRegionCodeForNumber(ln.num))
}

// shortRegionNames replaces CLDR display names that carry political
// qualifiers or disambiguation suffixes with the everyday short form.
var shortRegionNames = map[string]string{
	"HK": "Hong Kong",
	"MO": "Macau",
	"MM": "Myanmar",
	"CD": "DR Congo",
	"CG": "Congo",
	"PS": "Palestine",
}

func regionName(code string) string {
	if name, ok := shortRegionNames[code]; ok {
		return name
	}
	if code == "" || code == "ZZ" || code == "001" {
		return "Unknown"
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}
	if name := display.English.Regions().Name(region); name != "" {
		return strings.ReplaceAll(name, " & ", " and ")
	}
	return code
}
