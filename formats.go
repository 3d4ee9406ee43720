package amino

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Formats is the registry of named value validators. The `format`
// constraint on Str fields resolves here, and the built-in custom types
// (ipv4, ipv6, cidr, email, uuid) are registered over the same
// functions. All validators are deterministic and side-effect-free.
//
// New formats can be added by writing to this map before engine
// construction.
var Formats = map[string]func(any) bool{
	"date":      IsDate,
	"date-time": IsDateTime,
	"hostname":  IsHostname,
	"email":     IsEmail,
	"ipv4":      IsIPv4,
	"ipv6":      IsIPv6,
	"cidr":      IsCIDR,
	"uri":       IsURI,
	"uuid":      IsUUID,
	"regex":     IsRegex,
}

// IsDate tells whether the value is a full-date per RFC 3339.
func IsDate(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsDateTime tells whether the value is a date-time per RFC 3339.
func IsDateTime(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

// IsHostname tells whether the value is a valid Internet host name per
// RFC 1034 section 3.1 and RFC 1123 section 2.1.
func IsHostname(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	s = strings.TrimSuffix(s, ".")
	if len(s) == 0 || len(s) > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if len(label) < 1 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, c := range label {
			valid := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-'
			if !valid {
				return false
			}
		}
	}
	return true
}

// IsEmail tells whether the value is an Internet email address per
// RFC 5322, section 3.4.1.
func IsEmail(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	if len(s) > 254 {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at == -1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if len(local) > 64 {
		return false
	}
	// bracketed domains must hold an IP address
	if len(domain) >= 2 && domain[0] == '[' && domain[len(domain)-1] == ']' {
		ip := domain[1 : len(domain)-1]
		if strings.HasPrefix(ip, "IPv6:") {
			return IsIPv6(strings.TrimPrefix(ip, "IPv6:"))
		}
		return IsIPv4(ip)
	}
	if !IsHostname(domain) {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

// IsIPv4 tells whether the value is a dotted-quad IPv4 address. Leading
// zeroes are rejected, as they are treated as octals elsewhere.
func IsIPv4(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	groups := strings.Split(s, ".")
	if len(groups) != 4 {
		return false
	}
	for _, group := range groups {
		n, err := strconv.Atoi(group)
		if err != nil || n < 0 || n > 255 {
			return false
		}
		if n != 0 && group[0] == '0' {
			return false
		}
		if n == 0 && len(group) > 1 {
			return false
		}
	}
	return true
}

// IsIPv6 tells whether the value is an IPv6 address per RFC 2373.
func IsIPv6(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	if !strings.Contains(s, ":") {
		return false
	}
	return net.ParseIP(s) != nil
}

// IsCIDR tells whether the value is a CIDR notation network, v4 or v6.
func IsCIDR(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, _, err := net.ParseCIDR(s)
	return err == nil
}

// IsURI tells whether the value is an absolute URI per RFC 3986.
func IsURI(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

// IsUUID tells whether the value is a UUID per RFC 4122.
func IsUUID(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	groups := []int{8, 4, 4, 4, 12}
	for i, width := range groups {
		if len(s) < width {
			return false
		}
		for j := 0; j < width; j++ {
			c := s[j]
			hex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
			if !hex {
				return false
			}
		}
		s = s[width:]
		if i < len(groups)-1 {
			if len(s) == 0 || s[0] != '-' {
				return false
			}
			s = s[1:]
		}
	}
	return len(s) == 0
}

// IsRegex tells whether the value compiles as a regular expression.
func IsRegex(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, err := regexp.Compile(s)
	return err == nil
}
