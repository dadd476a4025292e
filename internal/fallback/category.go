package fallback

import "tweet-takeaways/internal/domain/entity"

// Category selects a fallback image.
type Category string

const (
	CategoryNews       Category = "news"
	CategorySocial     Category = "social"
	CategoryCookie     Category = "cookie"
	CategoryGovernment Category = "government"
	CategoryRotating   Category = "rotating"
	CategoryWeird      Category = "weird"
)

// ForPolicy maps a domain policy to its image category. PolicyNone maps to
// CategoryWeird.
func ForPolicy(p entity.DomainPolicy) Category {
	switch p {
	case entity.PolicyNews:
		return CategoryNews
	case entity.PolicySocial:
		return CategorySocial
	case entity.PolicyCookieGated:
		return CategoryCookie
	case entity.PolicyGovernment:
		return CategoryGovernment
	default:
		return CategoryWeird
	}
}
