package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Product is a catalog entry. The identity/session core never touches this
// table; it exists for the storefront routes.
type Product struct {
	BaseModel
	Code             string         `gorm:"uniqueIndex" json:"code"`
	Slug             string         `gorm:"uniqueIndex" json:"slug"`
	Name             string         `json:"name"`
	Brand            string         `json:"brand"`
	Category         string         `gorm:"index" json:"category"`
	Subcategory      string         `json:"subcategory"`
	PriceOriginal    float64        `json:"price_original"`
	PriceDiscounted  float64        `gorm:"index" json:"price_discounted"`
	Currency         string         `gorm:"default:INR" json:"currency"`
	Quantity         int            `json:"quantity"`
	Image            string         `json:"image"`
	ExtraImages      pq.StringArray `gorm:"type:text[]" json:"extra_images"`
	Description      string         `json:"description"`
	ShortDescription string         `json:"short_description"`
	Features         pq.StringArray `gorm:"type:text[]" json:"features"`
	Tags             pq.StringArray `gorm:"type:text[]" json:"tags"`
	SKU              string         `json:"sku"`
	InStock          bool           `gorm:"default:true;index" json:"in_stock"`
	CODAvailable     bool           `json:"cod_available"`
	ReturnEligible   bool           `gorm:"default:true" json:"return_eligible"`
	ReturnDays       int            `gorm:"default:7" json:"return_days"`
	Warranty         string         `json:"warranty"`
	Status           string         `gorm:"default:active" json:"status"`
	RatingAverage    float64        `json:"rating_average"`
	RatingCount      int            `json:"rating_count"`
	MetaTitle        string         `json:"meta_title"`
	MetaDescription  string         `json:"meta_description"`
}

var slugStripper = regexp.MustCompile(`[^\w\s-]`)
var slugSeparator = regexp.MustCompile(`[\s_-]+`)

// BeforeSave fills in the slug and meta fields when they are missing.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" && p.Name != "" {
		p.Slug = Slugify(p.Name)
		if p.Code != "" {
			p.Slug += "-" + strings.ToLower(p.Code)
		}
	}

	if p.MetaTitle == "" {
		p.MetaTitle = fmt.Sprintf("%s | ShopWeve - Best Price & Quality", p.Name)
	}

	if p.MetaDescription == "" {
		if p.ShortDescription != "" {
			p.MetaDescription = p.ShortDescription
		} else {
			brand := ""
			if p.Brand != "" {
				brand = p.Brand + " "
			}
			p.MetaDescription = fmt.Sprintf("Buy %s at best price. %s%s with fast delivery and easy returns.", p.Name, brand, p.Category)
		}
	}

	return nil
}

// Slugify lowercases a name and collapses it into a URL-safe slug.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = slugStripper.ReplaceAllString(s, "")
	s = slugSeparator.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
