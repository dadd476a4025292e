package summarize

import "tweet-takeaways/internal/domain/entity"

// Request is the body of both summarize endpoints.
type Request struct {
	URL string `json:"url"`
}

// Response is the body of a successful summarize call. OGImage is null when
// no image could be determined.
type Response struct {
	Summary         string  `json:"summary"`
	OGImage         *string `json:"og_image"`
	UsedHuggingFace bool    `json:"used_huggingface"`
}

func toResponse(res entity.SummaryResult) Response {
	out := Response{Summary: res.Summary, UsedHuggingFace: res.UsedRemoteModel}
	if res.OGImage != "" {
		img := res.OGImage
		out.OGImage = &img
	}
	return out
}
