package entity

// DomainPolicy is the category a target host falls into. It decides whether
// summarization is attempted at all.
type DomainPolicy string

const (
	PolicyNone        DomainPolicy = "none"
	PolicyNews        DomainPolicy = "news"
	PolicySocial      DomainPolicy = "social"
	PolicyGovernment  DomainPolicy = "government"
	PolicyCookieGated DomainPolicy = "cookie_gated"
)

// ParseDomainPolicy maps a configuration key to a policy. Unknown keys map to PolicyNone.
func ParseDomainPolicy(s string) (DomainPolicy, bool) {
	switch DomainPolicy(s) {
	case PolicyNews, PolicySocial, PolicyGovernment, PolicyCookieGated, PolicyNone:
		return DomainPolicy(s), true
	}
	return PolicyNone, false
}

func (p DomainPolicy) String() string {
	if p == "" {
		return string(PolicyNone)
	}
	return string(p)
}
