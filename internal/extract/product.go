package extract

// Product is one search result card, a field is nil when its node was not
// found in the card.
type Product struct {
	Id            *string  `json:"id,omitempty"`
	Name          *string  `json:"name,omitempty"`
	Url           *string  `json:"url,omitempty"`
	Price         *string  `json:"price,omitempty"`
	OriginalPrice *string  `json:"original_price,omitempty"`
	Rating        *string  `json:"rating,omitempty"`
	RatingCount   *string  `json:"rating_count,omitempty"`
	ImageUrl      *string  `json:"image_url,omitempty"`
	Badges        []string `json:"badges,omitempty"`
}

func optional(value string, ok bool) *string {
	if !ok {
		return nil
	}
	return &value
}
