package extract

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"coupang-search/internal/components/telemetry"
	"coupang-search/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultLimit   = 10
	DefaultBaseUrl = "https://www.coupang.com"
)

const (
	selectorCard          = "li.search-product"
	selectorName          = "div.name"
	selectorLink          = "a.search-product-link"
	selectorPrice         = "strong.price-value"
	selectorOriginalPrice = "del.base-price"
	selectorRating        = "em.rating"
	selectorRatingCount   = "span.rating-total-count"
	selectorImage         = "img.search-product-wrap-img"
	selectorBadge         = "span.badge"
)

type Options struct {
	// Limit is the maximum number of cards read, the first Limit cards in
	// document order are taken and a Limit <= 0 yields nothing.
	Limit int
	// BaseUrl resolves relative links and images, DefaultBaseUrl when empty.
	BaseUrl   string
	Telemetry telemetry.API
}

func (o Options) baseUrl() (*url.URL, error) {
	base := o.BaseUrl
	if base == "" {
		base = DefaultBaseUrl
	}
	return url.Parse(base)
}

// ParseProducts reads the product cards of a search results page.
func ParseProducts(r io.Reader, opts Options) ([]Product, error) {
	base, err := opts.baseUrl()
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	cards := doc.Find(selectorCard)
	tel := telemetry.OrDefault(opts.Telemetry)
	tel.ReportDebug("found product cards", cards.Length())

	products := []Product{}
	if opts.Limit <= 0 {
		return products, nil
	}
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		products = append(products, parseCard(card, base))
		return len(products) < opts.Limit
	})
	return products, nil
}

func parseCard(card *goquery.Selection, base *url.URL) Product {
	var product Product

	id, _ := card.Attr("id")
	id = strings.ReplaceAll(id, "product_", "")
	if id != "" {
		product.Id = &id
	}

	product.Name = optional(htmlutil.FirstText(card, selectorName))
	product.Price = optional(htmlutil.FirstText(card, selectorPrice))
	product.OriginalPrice = optional(htmlutil.FirstText(card, selectorOriginalPrice))
	product.Rating = optional(htmlutil.FirstText(card, selectorRating))

	if count, ok := htmlutil.FirstText(card, selectorRatingCount); ok {
		count = ratingCount(count)
		product.RatingCount = &count
	}

	if href, ok := htmlutil.FirstAttr(card, selectorLink, "href"); ok {
		link := htmlutil.ResolveUrl(base, href)
		product.Url = &link
	}

	if src, ok := imageSource(card); ok {
		image := htmlutil.ResolveUrl(base, src)
		product.ImageUrl = &image
	}

	product.Badges = htmlutil.AllText(card, selectorBadge)
	return product
}

// ratingCount turns "(1,234)" into "1,234", an empty count is "0".
func ratingCount(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "0"
	}
	return strings.Trim(text, "()")
}

// imageSource prefers src and falls back to the lazy loading attribute
// thumbnails below the fold are rendered with.
func imageSource(card *goquery.Selection) (string, bool) {
	img := card.Find(selectorImage).First()
	if img.Length() == 0 {
		return "", false
	}
	if src, ok := img.Attr("src"); ok {
		return src, true
	}
	return img.Attr("data-img-src")
}
